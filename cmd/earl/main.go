// Command earl is the EARL language driver: it lexes, parses, and
// evaluates `.earl` source files, and offers a REPL. The transpiler is
// exposed only as the accepted-but-inert --to-py flag (see
// cmd/earl/cmd/run.go); the autodoc emitter has no CLI surface.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-earl/cmd/earl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
