package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/peterh/liner"

	"github.com/sandrolain/gomml"
	"github.com/sandrolain/gomml/pkg/evaluator"
	"github.com/sandrolain/gomml/pkg/parser"
	"github.com/sandrolain/gomml/pkg/types"
)

const (
	prompt      = "==> "
	noEOLMarker = "\x1b[7m%\x1b[0m"
	clearScreen = "\x1b[2J\x1b[;;f"
)

var banner = fmt.Sprintf("-- mml %s interactive prompt --\nrun `exit` to quit prompt. Ctrl+C cancels input, Ctrl+D exits.", gomml.Version())

func red(s string) string { return "\x1b[31m" + s + "\x1b[0m" }

// session evaluates prompt lines against one evaluator.
type session struct {
	ev     *evaluator.Evaluator
	stdout io.Writer
	stderr io.Writer
}

// evalLine evaluates every statement of line and prints the value of the
// last one. Statements that parse are evaluated even when others fail.
// It reports whether the prompt should exit.
func (s *session) evalLine(line string) (quit bool) {
	if strings.TrimSpace(line) == "" {
		return false
	}

	stmts, perr := s.ev.ParseStatements(line)
	if perr != nil {
		s.printErrors(perr)
	}
	if len(stmts) == 0 {
		return false
	}
	s.ev.Push(stmts...)
	v, err := s.ev.EvalPending()

	// mark output that did not end its line
	if !s.ev.LastPrintEndedLine() {
		fmt.Fprintln(s.ev.Output(), noEOLMarker)
	}
	if err != nil {
		s.printErrors(err)
	}

	switch {
	case v.Kind == types.KindInvalid && v.Sentinel == types.SentinelQuit:
		return true
	case v.Kind == types.KindInvalid && v.Sentinel == types.SentinelClear:
		fmt.Fprint(s.stdout, clearScreen)
	case v.IsValid():
		fmt.Fprintln(s.ev.Output(), s.ev.Format(v))
	}
	return false
}

func (s *session) printErrors(err error) {
	for _, e := range parser.Errors(err) {
		fmt.Fprintln(s.stderr, red(e.Error()))
	}
}

// runPrompt runs the interactive prompt until exit, Ctrl+D or a signal.
func runPrompt(ev *evaluator.Evaluator, historyPath string, stdout, stderr io.Writer) int {
	fmt.Fprintln(stdout, banner)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	var saveOnce sync.Once
	saveHistory := func() {
		saveOnce.Do(func() {
			if historyPath == "" {
				return
			}
			if f, err := os.Create(historyPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		})
	}
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	defer saveHistory()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigc)
	done := make(chan struct{})
	defer close(done)
	// The prompt blocks in a terminal read that a signal cannot interrupt,
	// so the watcher ends the process itself. It leaves the evaluator to the
	// main goroutine.
	go watchSignals(sigc, done, func(sig os.Signal) {
		saveHistory()
		_ = ln.Close()
		fmt.Fprintf(stderr, "\n\nterminated with signal %v\n", sig)
		os.Exit(exitUsage)
	})

	s := &session{ev: ev, stdout: stdout, stderr: stderr}
	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(stdout)
			return exitOK
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			fmt.Fprintln(stderr, red(err.Error()))
			return exitEval
		}

		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
		if s.evalLine(line) {
			return exitOK
		}
	}
}

// watchSignals calls stop with the first signal received on sigc. It returns
// without calling stop once done is closed.
func watchSignals(sigc <-chan os.Signal, done <-chan struct{}, stop func(os.Signal)) {
	select {
	case sig := <-sigc:
		stop(sig)
	case <-done:
	}
}
