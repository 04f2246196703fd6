// StrikeCore is a deterministic, data-driven 2D fighting game engine.
// Usage: strikecore [--version] [--plain] [--script <file>] [--trace] [--seed <n>] <content_directory>
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/nathoo/strikecore/cli"
	"github.com/nathoo/strikecore/engine"
	"github.com/nathoo/strikecore/loader"
	"github.com/nathoo/strikecore/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	plain := false
	trace := false
	var contentDir string
	var scriptFile string
	var seed int64
	var seedSet bool

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("strikecore %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--script":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--script requires a file path\n")
				os.Exit(1)
			}
			i++
			scriptFile = args[i]
		case "--seed":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--seed requires an integer\n")
				os.Exit(1)
			}
			i++
			v, err := strconv.ParseInt(args[i], 10, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "--seed: %v\n", err)
				os.Exit(1)
			}
			seed = v
			seedSet = true
		default:
			if contentDir == "" {
				contentDir = args[i]
			}
		}
	}

	if contentDir == "" {
		fmt.Fprintf(os.Stderr, "Usage: strikecore [--version] [--plain] [--script <file>] [--trace] [--seed <n>] <content_directory>\n")
		os.Exit(1)
	}

	// Load and compile Lua match content.
	defs, err := loader.Load(contentDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading content: %v\n", err)
		os.Exit(1)
	}

	eng, err := engine.New(defs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if seedSet {
		eng.RestoreRNG(seed, 0)
	}

	// Script mode: open file, force plain, echo inputs.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		c := cli.New(eng, defs)
		c.In = f
		c.EchoInput = true
		c.Trace = trace
		c.Run()
		return
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if plain || !isTerminal() {
		c := cli.New(eng, defs)
		c.Trace = trace
		c.Run()
		return
	}

	if err := tui.Run(eng, defs); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
