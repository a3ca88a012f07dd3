// Command ttree is a small interactive shell over a string-keyed
// ttree.Tree, useful for poking at insert/delete/rebalance behavior by
// hand without writing a Go program.
package main

import (
	"bufio"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/neesenk/ttree"
)

func main() {
	var order int
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "ttree",
		Short: "interactive shell over an in-memory T*-tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := ttree.NewOrder[string, string](ttree.OrderedComparator[string](), order)
			if err != nil {
				return err
			}
			if verbose {
				logger, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				defer logger.Sync()
				tree.SetLogger(zapTreeLogger{logger})
			}
			repl := newREPL(bufio.NewScanner(os.Stdin), tree)
			repl.run()
			return nil
		},
	}
	rootCmd.Flags().IntVar(&order, "order", ttree.DefaultOrder, "keys per node")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log structural events")

	rootCmd.SetOutput(os.Stdout)
	if err := rootCmd.Execute(); err != nil {
		rootCmd.Println(err)
		os.Exit(1)
	}
}

// zapTreeLogger adapts *zap.Logger to ttree.Logger.
type zapTreeLogger struct{ l *zap.Logger }

func (z zapTreeLogger) Debug(msg string, fields ...zap.Field) { z.l.Debug(msg, fields...) }
