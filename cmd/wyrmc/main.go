// Command wyrmc is a minimal embedding client exercising host.Interp
// end to end: load a source file, evaluate a one-off expression, or
// drop into a line-at-a-time REPL, with DoString as the single entry
// every mode funnels through.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/wyrmlang/wyrmcore/host"
)

func main() {
	var loadPath string
	var evalText string
	var relax bool
	i := 1
	for i < len(os.Args) {
		switch os.Args[i] {
		case "-load":
			if i+1 >= len(os.Args) {
				fmt.Fprintf(os.Stderr, "usage: %s [-load file] [-eval text] [-relax]\n", os.Args[0])
				os.Exit(1)
			}
			loadPath = os.Args[i+1]
			i += 2
		case "-eval":
			if i+1 >= len(os.Args) {
				fmt.Fprintf(os.Stderr, "usage: %s [-load file] [-eval text] [-relax]\n", os.Args[0])
				os.Exit(1)
			}
			evalText = os.Args[i+1]
			i += 2
		case "-relax":
			relax = true
			i++
		default:
			fmt.Fprintf(os.Stderr, "unrecognized argument %q\n", os.Args[i])
			os.Exit(1)
		}
	}

	in, err := host.Init()
	if err != nil {
		fmt.Fprintf(os.Stderr, "wyrmc: init: %v\n", err)
		os.Exit(1)
	}
	defer in.Shutdown(true)

	ran := false
	if loadPath != "" {
		ran = true
		src, err := os.ReadFile(loadPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "wyrmc: %v\n", err)
			os.Exit(1)
		}
		runOne(in, string(src), relax)
	}
	if evalText != "" {
		ran = true
		runOne(in, evalText, relax)
	}
	if !ran {
		repl(in, relax)
	}
}

func runOne(in *host.Interp, text string, relax bool) {
	kind, out, err := in.DoString(text, relax)
	if err != nil {
		fmt.Fprintf(os.Stderr, "** error: %v\n", err)
		os.Exit(1)
	}
	switch {
	case kind == host.ResultHalt:
		fmt.Fprintln(os.Stderr, "** halted")
	case kind == host.ResultVoid:
		// nothing printed, matches a no-result expression
	default:
		fmt.Printf("%v\n", out.Kind())
	}
}

func repl(in *host.Interp, relax bool) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Fprint(os.Stderr, ">> ")
	for scanner.Scan() {
		line := scanner.Text()
		kind, out, err := in.DoString(line, relax)
		switch {
		case err != nil:
			fmt.Fprintf(os.Stderr, "** error: %v\n", err)
		case kind == host.ResultHalt:
			fmt.Fprintln(os.Stderr, "** halted")
		case kind == host.ResultQuit:
			return
		case kind == host.ResultVoid:
		default:
			fmt.Printf("== %v\n", out.Kind())
		}
		fmt.Fprint(os.Stderr, ">> ")
	}
}
