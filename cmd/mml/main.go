// Command mml evaluates gomml expressions from the command line or in an
// interactive prompt.
//
// Usage:
//
//	mml [options] <EXPR>
//	mml [options] -          read the expression from stdin
//	mml [options]            start the interactive prompt
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/sandrolain/gomml"
	"github.com/sandrolain/gomml/pkg/evaluator"
	"github.com/sandrolain/gomml/pkg/ext"
	"github.com/sandrolain/gomml/pkg/format"
	"github.com/sandrolain/gomml/pkg/parser"
)

const (
	exitOK    = 0
	exitEval  = 1
	exitUsage = 2
)

// options are the parsed command-line flags.
type options struct {
	debug         bool
	print         bool
	expr          string
	precision     int
	fullPrecision bool
	noEval        bool
	boolsAsNums   bool
	noEstimate    bool
	locale        string
	interactive   bool
	configPath    string
	version       bool
	vars          varFlags
	args          []string

	set map[string]bool // flags present on the command line
}

// varFlags collects repeated --set-var name=expr flags.
type varFlags []binding

func (v *varFlags) String() string {
	parts := make([]string, len(*v))
	for i, b := range *v {
		parts[i] = b.Name + "=" + b.Source
	}
	return strings.Join(parts, ",")
}

func (v *varFlags) Set(s string) error {
	name, src, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return fmt.Errorf("expected name=expr, got %q", s)
	}
	if strings.TrimSpace(src) == "" {
		return fmt.Errorf("expression is required following variable %s", name)
	}
	*v = append(*v, binding{Name: name, Source: src})
	return nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// parseArgs parses args into options. Every flag has a long form; the most
// common ones also have a single-letter alias.
func parseArgs(args []string, stderr io.Writer) (*options, error) {
	o := &options{precision: format.DefaultPrecision}
	fs := flag.NewFlagSet("mml", flag.ContinueOnError)
	fs.SetOutput(stderr)

	boolFlag := func(p *bool, usage string, names ...string) {
		for _, n := range names {
			fs.BoolVar(p, n, false, usage)
		}
	}
	boolFlag(&o.debug, "enable debug output", "d", "debug")
	boolFlag(&o.print, "print the value of the last statement", "P", "print")
	boolFlag(&o.fullPrecision, "print reals with a fixed number of decimals", "full-precision")
	boolFlag(&o.noEval, "only parse the expression", "no-eval")
	boolFlag(&o.boolsAsNums, "print booleans as 1 and 0", "bools-are-nums")
	boolFlag(&o.noEstimate, "compare reals exactly with == and !=", "no-estimate-equality")
	boolFlag(&o.interactive, "start the interactive prompt", "I", "interactive")
	boolFlag(&o.version, "display program information", "V", "version")
	for _, n := range []string{"E", "expr"} {
		fs.StringVar(&o.expr, n, "", "expression to evaluate")
	}
	for _, n := range []string{"p", "precision"} {
		fs.IntVar(&o.precision, n, format.DefaultPrecision, "number of digits printed for reals")
	}
	fs.StringVar(&o.locale, "locale", "", "BCP 47 locale for digit grouping, e.g. en or de-CH")
	fs.StringVar(&o.configPath, "config", "", "configuration file (default "+defaultConfigPath()+")")
	fs.Var(&o.vars, "set-var", "bind `name=expr` before evaluation (repeatable)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: mml [options] <EXPR>\n       mml [options] -\n\noptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.precision < 0 {
		return nil, fmt.Errorf("precision must not be negative, got %d", o.precision)
	}

	o.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	o.args = fs.Args()
	return o, nil
}

// resolve merges the config file and the flags. Flags win.
func (o *options) resolve() (settings, error) {
	s := defaultSettings()
	s.HistoryFile = defaultHistoryPath()

	path, required := defaultConfigPath(), false
	if o.configPath != "" {
		path, required = o.configPath, true
	}
	cfg, err := loadConfig(path, required)
	if err != nil {
		return s, err
	}
	cfg.apply(&s)

	if o.set["p"] || o.set["precision"] {
		s.Format.Precision = o.precision
	}
	if o.set["full-precision"] {
		s.Format.FullPrecision = o.fullPrecision
	}
	if o.set["bools-are-nums"] {
		s.Format.BoolsAsNumbers = o.boolsAsNums
	}
	if o.set["no-estimate-equality"] {
		s.EstimateEquality = !o.noEstimate
	}
	if o.set["locale"] {
		s.Format.Locale = o.locale
	}
	s.Vars = append(s.Vars, o.vars...)
	return s, nil
}

// source returns the expression to evaluate, or ok=false when none was given.
func (o *options) source(stdin io.Reader) (src string, ok bool, err error) {
	switch {
	case o.expr != "":
		return o.expr, true, nil
	case len(o.args) == 1 && o.args[0] == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", false, fmt.Errorf("read stdin: %w", err)
		}
		return string(data), true, nil
	case len(o.args) > 0:
		return strings.Join(o.args, " "), true, nil
	}
	return "", false, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	o, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintln(stderr, "argument error:", err)
		return exitUsage
	}
	if o.version {
		fmt.Fprintf(stdout, "mml %s\n", gomml.Version())
		return exitOK
	}

	s, err := o.resolve()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	level := slog.LevelWarn
	if o.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	evalOpts := append(s.evalOptions(),
		evaluator.WithOutput(stdout),
		evaluator.WithDebug(o.debug),
		evaluator.WithLogger(logger),
		evaluator.WithCaching(true),
		ext.WithAll(),
	)
	ev := gomml.NewSession(evalOpts...)
	defer ev.Close()

	for _, b := range s.Vars {
		if err := ev.BindSource(b.Name, b.Source); err != nil {
			fmt.Fprintln(stderr, "argument error:", err)
			return exitUsage
		}
	}

	src, ok, err := o.source(stdin)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	if o.interactive || !ok {
		return runPrompt(ev, s.HistoryFile, stdout, stderr)
	}
	if o.noEval {
		return parseOnly(ev, src, o.debug, stdout, stderr)
	}

	v, err := ev.Run(src)
	if err != nil {
		printErrors(stderr, err)
		return exitEval
	}
	if o.print && v.IsValid() {
		fmt.Fprintln(ev.Output(), ev.Format(v))
	}
	return exitOK
}

// parseOnly parses src without evaluating it. With debug set, the AST of
// every statement is written to stdout.
func parseOnly(ev *evaluator.Evaluator, src string, debug bool, stdout, stderr io.Writer) int {
	stmts, err := ev.ParseStatements(src)
	if err != nil {
		printErrors(stderr, err)
		return exitEval
	}
	if debug {
		for i, h := range stmts {
			fmt.Fprintf(stdout, "statement %d:\n", i+1)
			if err := format.Tree(stdout, ev.Arena(), h); err != nil {
				fmt.Fprintln(stderr, err)
				return exitEval
			}
		}
	}
	return exitOK
}

// printErrors writes each joined error on its own line.
func printErrors(w io.Writer, err error) {
	for _, e := range parser.Errors(err) {
		fmt.Fprintln(w, "error:", e)
	}
}
