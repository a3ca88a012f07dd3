package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/neesenk/ttree"
)

// repl is a minimal line-oriented shell over a *ttree.Tree[string,
// string], in the spirit of a classic key-value CLI: one command per
// line, immediate feedback, no persistence between runs.
type repl struct {
	scanner *bufio.Scanner
	tree    *ttree.Tree[string, string]
}

func newREPL(s *bufio.Scanner, t *ttree.Tree[string, string]) *repl {
	return &repl{scanner: s, tree: t}
}

func (r *repl) run() {
	r.printHelp()
	r.printPrompt()
	for r.scanner.Scan() {
		r.dispatch(r.scanner.Text())
		r.printPrompt()
	}
}

func (r *repl) printHelp() {
	fmt.Print(`
ttree shell

Available commands:
  SET <key> <val>   insert key/val, erroring on a duplicate key
  GET <key>         look up key
  DEL <key>         delete key
  REPLACE <key> <v> overwrite the value stored at an existing key
  MIN / MAX         print the smallest/largest key
  PRINT             print the tree outline with balance factors
  CHECK             verify every structural invariant
  EXIT              terminate this session
`)
}

func (r *repl) printPrompt() { fmt.Print("> ") }

func (r *repl) dispatch(line string) {
	fields := strings.Fields(line)
	if len(fields) < 1 {
		return
	}
	switch strings.ToUpper(fields[0]) {
	case "SET":
		r.set(fields[1:])
	case "GET":
		r.get(fields[1:])
	case "DEL":
		r.del(fields[1:])
	case "REPLACE":
		r.replace(fields[1:])
	case "MIN":
		r.printCursor(r.tree.Min())
	case "MAX":
		r.printCursor(r.tree.Max())
	case "PRINT":
		r.tree.Fprint(os.Stdout)
	case "CHECK":
		if err := r.tree.CheckInvariants(); err != nil {
			fmt.Println(err)
		} else {
			fmt.Println("ok")
		}
	case "EXIT":
		os.Exit(0)
	default:
		fmt.Printf("unknown command %q\n", fields[0])
	}
}

func (r *repl) set(args []string) {
	if len(args) != 2 {
		fmt.Println("usage: SET <key> <val>")
		return
	}
	if err := r.tree.Insert(args[0], args[1]); err != nil {
		fmt.Println(err)
	}
}

func (r *repl) get(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: GET <key>")
		return
	}
	v, ok := r.tree.Lookup(args[0])
	if !ok {
		fmt.Println("not found")
		return
	}
	fmt.Println(v)
}

func (r *repl) del(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: DEL <key>")
		return
	}
	if _, ok := r.tree.Delete(args[0]); !ok {
		fmt.Println("not found")
	}
}

func (r *repl) replace(args []string) {
	if len(args) != 2 {
		fmt.Println("usage: REPLACE <key> <val>")
		return
	}
	if err := r.tree.Replace(args[0], args[1]); err != nil {
		fmt.Println(err)
	}
}

func (r *repl) printCursor(c ttree.Cursor[string, string]) {
	k, ok := c.Key()
	if !ok {
		fmt.Println("empty")
		return
	}
	v, _ := c.Value()
	fmt.Printf("%s=%s\n", k, v)
}
