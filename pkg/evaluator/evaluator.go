// Package evaluator implements the gomml evaluation session.
//
// An [Evaluator] owns an arena of AST nodes, a table of variable bindings and
// the last result ("ans"). It parses source text into its arena and evaluates
// statements by walking the tree, dispatching operators on the runtime kinds
// of their operands and function calls on the kind of their first argument.
//
// Bindings are lazy: "x = y + 1" stores the unevaluated right-hand side and
// every later read of x evaluates it again against the current bindings.
//
// # Example
//
//	ev := evaluator.New()
//	v, err := ev.Run("x = 3; y = 4; |[x, y]|")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(ev.Format(v)) // 5
//
// # Errors
//
// Failures are values while a statement runs: the first failure is recorded
// and an Invalid value propagates through every enclosing operation without
// further diagnostics. [Evaluator.Eval] returns the recorded *types.Error.
//
// # Concurrency
//
// An Evaluator is single-threaded. Independent sessions may run on separate
// goroutines; the builtin function tables they share are read-only.
package evaluator

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/sandrolain/gomml/pkg/cache"
	"github.com/sandrolain/gomml/pkg/format"
	"github.com/sandrolain/gomml/pkg/functions"
	"github.com/sandrolain/gomml/pkg/parser"
	"github.com/sandrolain/gomml/pkg/types"
)

// Epsilon is the tolerance of the fuzzy equality operators and of integer
// index checks.
const Epsilon = 1e-14

// Evaluator is an evaluation session.
type Evaluator struct {
	opts      EvalOptions
	logger    *slog.Logger
	cache     *cache.Cache // non-nil when Caching is enabled
	arena     *types.Arena
	registry  *functions.Registry
	bindings  *Bindings
	formatter *format.Formatter
	out       *lineWriter

	last    types.Value
	hasLast bool
	pending []types.Handle

	depth   int
	callPos int
	err     *types.Error // first failure of the running statement
	closed  bool
}

// EvalOptions configures evaluator behavior.
type EvalOptions struct {
	// Caching enables parse caching by source text in Run.
	Caching bool
	// CacheSize sets the maximum number of cached programs. Defaults to 256.
	CacheSize int
	// MaxDepth limits evaluation recursion depth.
	MaxDepth int
	// ParseDepth limits expression nesting accepted by the parser.
	ParseDepth int
	// FuzzyEquality makes == and != compare reals within Epsilon.
	FuzzyEquality bool
	// Format holds the output formatting settings.
	Format format.Config
	// Output receives the text written by print-like builtins.
	Output io.Writer
	// ArenaCapacity is the initial node capacity of the session arena.
	ArenaCapacity int
	// Debug enables debug logging.
	Debug bool
	// Logger for structured logging.
	Logger *slog.Logger
	// Functions holds custom entries layered over the builtin registry.
	Functions []functions.Entry
}

// New creates a new session with default options.
//
// New never fails; a malformed locale in the format settings is logged and
// replaced by the default formatter.
func New(opts ...EvalOption) *Evaluator {
	options := EvalOptions{
		MaxDepth:      10000,
		ParseDepth:    parser.DefaultMaxDepth,
		FuzzyEquality: true,
		Format:        format.DefaultConfig(),
	}

	for _, opt := range opts {
		opt(&options)
	}

	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.Output == nil {
		options.Output = os.Stdout
	}

	var c *cache.Cache
	if options.Caching {
		c = cache.New(options.CacheSize)
	}

	registry := builtins()
	if len(options.Functions) > 0 {
		registry = functions.NewOverlay(registry, options.Functions...)
	}

	e := &Evaluator{
		opts:     options,
		logger:   options.Logger,
		cache:    c,
		arena:    types.NewArena(options.ArenaCapacity),
		registry: registry,
		bindings: NewBindings(),
		out:      &lineWriter{w: options.Output, endsLine: true},
		callPos:  types.NoPosition,
	}
	if err := e.SetFormat(options.Format); err != nil {
		e.logger.Warn("invalid format settings, using defaults", "error", err)
		e.formatter = format.Default()
	}
	return e
}

// Close releases the session. Every later call fails with ErrSessionClosed.
func (e *Evaluator) Close() {
	e.closed = true
	e.arena = nil
	e.bindings = nil
	e.pending = nil
	if e.cache != nil {
		e.cache.Clear()
	}
}

// Cache returns the parse cache, or nil if caching is disabled.
func (e *Evaluator) Cache() *cache.Cache {
	return e.cache
}

// Arena returns the session's node store.
func (e *Evaluator) Arena() *types.Arena {
	return e.arena
}

// Registry returns the function registry the session resolves names against.
func (e *Evaluator) Registry() *functions.Registry {
	return e.registry
}

// Bindings returns the session's variable table.
func (e *Evaluator) Bindings() *Bindings {
	return e.bindings
}

// Output returns the writer print-like builtins write to.
func (e *Evaluator) Output() io.Writer {
	return e.out
}

// LastPrintEndedLine reports whether the most recent output ended with a
// newline. It is true before anything was written.
func (e *Evaluator) LastPrintEndedLine() bool {
	return e.out.endsLine
}

// Format renders v with the session's formatting settings. After Close the
// elements of a vector can no longer be resolved and print as "?".
func (e *Evaluator) Format(v types.Value) string {
	if e.closed {
		return e.formatter.Value(v, nil)
	}
	return e.formatter.Value(v, e)
}

// FormatConfig returns the current formatting settings.
func (e *Evaluator) FormatConfig() format.Config {
	return e.formatter.Config()
}

// SetFormat replaces the formatting settings.
func (e *Evaluator) SetFormat(cfg format.Config) error {
	f, err := format.New(cfg)
	if err != nil {
		return err
	}
	e.formatter = f
	e.opts.Format = cfg
	return nil
}

// SetFuzzyEquality switches == and != between fuzzy and exact comparison.
func (e *Evaluator) SetFuzzyEquality(enabled bool) {
	e.opts.FuzzyEquality = enabled
}

// Last returns the result of the most recent successful statement.
func (e *Evaluator) Last() (types.Value, bool) {
	return e.last, e.hasLast
}

// Parse parses one statement into the session arena.
func (e *Evaluator) Parse(src string) (types.Handle, error) {
	if e.closed {
		return types.NoHandle, errClosed()
	}
	return parser.Parse(e.arena, src, e.parseOptions()...)
}

// ParseStatements parses a statement list into the session arena. It returns
// the statements that parsed even when others failed.
func (e *Evaluator) ParseStatements(src string) ([]types.Handle, error) {
	if e.closed {
		return nil, errClosed()
	}
	return parser.ParseStatements(e.arena, src, e.parseOptions()...)
}

// ParseProgram parses src as a whole, through the cache when enabled.
func (e *Evaluator) ParseProgram(src string) (*types.Program, error) {
	if e.closed {
		return nil, errClosed()
	}
	parse := func() (*types.Program, error) {
		return parser.ParseProgram(e.arena, src, e.parseOptions()...)
	}
	if e.cache == nil {
		return parse()
	}
	return e.cache.Program(cache.Key{Source: src, ParseDepth: e.opts.ParseDepth}, parse)
}

func (e *Evaluator) parseOptions() []parser.CompileOption {
	return []parser.CompileOption{parser.WithMaxDepth(e.opts.ParseDepth)}
}

// Eval evaluates the statement h. The result becomes "ans" unless it is Invalid.
//
// On failure the value is types.Invalid and the error is the first
// *types.Error reported while evaluating h.
func (e *Evaluator) Eval(h types.Handle) (types.Value, error) {
	if e.closed {
		return types.Invalid, errClosed()
	}

	e.err = nil
	e.depth = 0
	v := e.evalNode(h)
	err := e.err
	e.err = nil

	if err == nil && !v.IsValid() && v.Sentinel == types.SentinelError {
		err = types.NewError(types.ErrNoValue, "expression produced no value", e.arena.Node(h).Position)
	}
	if err != nil {
		return types.Invalid, err
	}

	if v.IsValid() {
		e.last = v
		e.hasLast = true
	}
	return v, nil
}

// Push queues statements for EvalPending.
func (e *Evaluator) Push(hs ...types.Handle) {
	e.pending = append(e.pending, hs...)
}

// EvalPending evaluates every queued statement in order and returns the
// value of the last one. A statement yielding the exit sentinel stops the
// queue. The error joins the failures of every failed statement.
func (e *Evaluator) EvalPending() (types.Value, error) {
	var (
		last types.Value = types.Void
		errs []error
	)
	for len(e.pending) > 0 {
		h := e.pending[0]
		e.pending = e.pending[1:]

		v, err := e.Eval(h)
		if err != nil {
			errs = append(errs, err)
		}
		last = v
		if v.Kind == types.KindInvalid && v.Sentinel == types.SentinelQuit {
			e.pending = nil
			break
		}
	}
	return last, errors.Join(errs...)
}

// Run parses src and evaluates all of its statements, returning the value
// of the last one. Nothing is evaluated when src fails to parse.
func (e *Evaluator) Run(src string) (types.Value, error) {
	prog, err := e.ParseProgram(src)
	if err != nil {
		return types.Invalid, err
	}
	e.Push(prog.Statements()...)
	return e.EvalPending()
}

// BindVariable binds name to the unevaluated expression h.
func (e *Evaluator) BindVariable(name string, h types.Handle) error {
	if e.closed {
		return errClosed()
	}
	if !isIdentifier(name) {
		return types.Errorf(types.ErrLeftSideAssign, types.NoPosition, "%q is not an identifier", name)
	}
	if e.reserved(name) {
		return types.Errorf(types.ErrAssignToConstant, types.NoPosition, "cannot assign to builtin constant '%s'", name)
	}
	if !e.arena.Valid(h) {
		return fmt.Errorf("bind %s: handle %d does not belong to this session", name, h)
	}
	e.bindings.Set(name, h)
	return nil
}

// BindSource parses src and binds name to it.
func (e *Evaluator) BindSource(name, src string) error {
	h, err := e.Parse(src)
	if err != nil {
		return fmt.Errorf("bind %s: %w", name, err)
	}
	return e.BindVariable(name, h)
}

// Variable returns the expression bound to name.
func (e *Evaluator) Variable(name string) (types.Handle, bool) {
	if e.closed {
		return types.NoHandle, false
	}
	return e.bindings.Get(name)
}

// Insert makes v available as $name. Inserted values live in their own
// namespace and never collide with variables.
func (e *Evaluator) Insert(name string, v types.Value) error {
	if e.closed {
		return errClosed()
	}
	if !isIdentifier(name) {
		return fmt.Errorf("insert: %q is not an identifier", name)
	}
	e.bindings.Insert(name, e.arena.AllocValue(v))
	return nil
}

// EvalOption configures evaluation behavior.
type EvalOption func(*EvalOptions)

// WithCaching enables or disables parse caching in Run.
// When enabled, a default LRU cache of 256 entries is created.
// To control the cache size use WithCacheSize.
func WithCaching(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Caching = enabled
	}
}

// WithCacheSize sets the maximum number of cached programs.
// Only effective when combined with WithCaching(true).
func WithCacheSize(size int) EvalOption {
	return func(opts *EvalOptions) {
		opts.CacheSize = size
	}
}

// WithMaxDepth sets the maximum recursion depth.
func WithMaxDepth(depth int) EvalOption {
	return func(opts *EvalOptions) {
		opts.MaxDepth = depth
	}
}

// WithParseDepth sets the maximum expression nesting accepted by the parser.
func WithParseDepth(depth int) EvalOption {
	return func(opts *EvalOptions) {
		opts.ParseDepth = depth
	}
}

// WithFuzzyEquality enables or disables tolerant == and != on reals.
func WithFuzzyEquality(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.FuzzyEquality = enabled
	}
}

// WithFormat sets the output formatting settings.
func WithFormat(cfg format.Config) EvalOption {
	return func(opts *EvalOptions) {
		opts.Format = cfg
	}
}

// WithPrecision sets the number of significant digits printed for reals.
func WithPrecision(precision int) EvalOption {
	return func(opts *EvalOptions) {
		opts.Format.Precision = precision
	}
}

// WithOutput sets the writer print-like builtins write to. Defaults to os.Stdout.
func WithOutput(w io.Writer) EvalOption {
	return func(opts *EvalOptions) {
		opts.Output = w
	}
}

// WithArenaCapacity sets the initial node capacity of the session arena.
func WithArenaCapacity(n int) EvalOption {
	return func(opts *EvalOptions) {
		opts.ArenaCapacity = n
	}
}

// WithDebug enables or disables debug logging.
func WithDebug(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Debug = enabled
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) EvalOption {
	return func(opts *EvalOptions) {
		opts.Logger = logger
	}
}

// WithFunctions registers custom constants and functions with the session.
// They take precedence over builtins of the same table and name.
//
// Example:
//
//	ev := evaluator.New(evaluator.WithFunctions(
//	    functions.RealFunc{Name: "cube", Fn: func(x float64) float64 { return x * x * x }},
//	))
func WithFunctions(entries ...functions.Entry) EvalOption {
	return func(opts *EvalOptions) {
		opts.Functions = append(opts.Functions, entries...)
	}
}

func errClosed() error {
	return types.NewError(types.ErrSessionClosed, "session is closed", types.NoPosition)
}
