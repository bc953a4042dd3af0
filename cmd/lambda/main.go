package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	lambda "github.com/bjn7/Lambda"
)

const (
	appName     = "lambda"
	historyFile = ".lambda_history"
	promptMain  = "λ> "
)

var banner = fmt.Sprintf("Lambda %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", lambda.Version)

func red(s string) string  { return "\x1b[31m" + s + "\x1b[0m" }
func blue(s string) string { return "\x1b[94m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "%s: missing source code file path\n", appName)
		usage()
		os.Exit(2)
	}

	switch cmd := os.Args[1]; cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl())
	case "version":
		fmt.Println(lambda.Version)
	case "-h", "--help", "help":
		usage()
	default:
		// Minimal surface: one positional argument is a script path.
		os.Exit(cmdRun(os.Args[1:]))
	}
}

func usage() {
	fmt.Printf(`Lambda %s (built %s)

Usage:
  %s run <file>     Run a script (bare "%s <file>" works too).
  %s repl           Start the REPL.
  %s version        Print the version.

`, lambda.Version, lambda.BuildDate, appName, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run <file>\n", appName)
		return 2
	}
	file := args[0]

	srcBytes, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}
	src := string(srcBytes)

	prog, perr := lambda.ParseSource(src)
	if perr != nil {
		fmt.Fprintln(os.Stderr, lambda.WrapErrorWithName(perr, file, src).Error())
		return 1
	}

	ip := lambda.NewInterpreter()
	if _, eerr := ip.EvalProgram(prog); eerr != nil {
		fmt.Fprintln(os.Stderr, lambda.WrapErrorWithName(eerr, file, src).Error())
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl() int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	ip := lambda.NewInterpreter()

	for {
		code, err := ln.Prompt(promptMain)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return 0
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			return 1
		}

		if strings.HasPrefix(strings.TrimSpace(code), ":") {
			switch strings.TrimSpace(strings.ToLower(code)) {
			case ":quit":
				return 0
			default:
				fmt.Println("unknown command. Type :quit to exit.")
			}
			continue
		}
		if strings.TrimSpace(code) == "" {
			continue
		}

		prog, perr := lambda.ParseSource(code)
		if perr != nil {
			fmt.Fprintln(os.Stderr, red(lambda.WrapErrorWithSource(perr, code).Error()))
			continue
		}

		// Statement by statement so earlier results survive a later error.
		for _, st := range prog.Statements {
			if _, isEnd := st.(*lambda.EndOfInput); isEnd {
				continue
			}
			v, eerr := ip.EvalStatement(st)
			if eerr != nil {
				fmt.Fprintln(os.Stderr, red(lambda.WrapErrorWithSource(eerr, code).Error()))
				break
			}
			fmt.Println(blue(lambda.FormatValue(v)))
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
}
