package ttree

import "go.uber.org/zap"

// Logger is the subset of *zap.Logger the tree needs to trace structural
// events (node allocation, node free, leaf attachment; rotations and
// rebalance walks are not logged). Nothing in
// the core algorithm depends on zap directly; SetLogger(zap.NewNop()) and
// a real *zap.Logger both satisfy this interface.
type Logger interface {
	Debug(msg string, fields ...zap.Field)
}

// NopLogger discards everything. It is the zero-value Logger installed
// by New/NewOrder.
type NopLogger struct{}

// Debug implements Logger.
func (NopLogger) Debug(string, ...zap.Field) {}
