package evaluator

import (
	"fmt"
	"io"

	"github.com/sandrolain/gomml/pkg/format"
	"github.com/sandrolain/gomml/pkg/functions"
	"github.com/sandrolain/gomml/pkg/types"
)

// stdFunctions returns the output, debugging and configuration builtins.
func stdFunctions() []functions.Entry {
	return []functions.Entry{
		functions.Variadic{Name: "print", Fn: fnPrint},
		functions.Variadic{Name: "println", Fn: fnPrintln},
		functions.Variadic{Name: "dbg", Fn: fnDbg},
		functions.Variadic{Name: "dbg_type", Fn: fnDbgType},
		functions.Variadic{Name: "dbg_ident", Fn: fnDbgIdent},
		functions.Variadic{Name: "config_set", Fn: fnConfigSet},
	}
}

// fnPrint writes its arguments separated by spaces, without a newline.
func fnPrint(c functions.Caller, args []types.Handle) types.Value {
	for i, h := range args {
		v := c.Evaluate(h)
		if !v.IsValid() && v.Sentinel == types.SentinelError {
			return types.Invalid
		}
		if i > 0 {
			_, _ = io.WriteString(c.Output(), " ")
		}
		_, _ = io.WriteString(c.Output(), c.Format(v))
	}
	return types.Void
}

// fnPrintln writes every argument on its own line. Without arguments it
// writes a bare newline.
func fnPrintln(c functions.Caller, args []types.Handle) types.Value {
	if len(args) == 0 {
		_, _ = io.WriteString(c.Output(), "\n")
		return types.Void
	}
	for _, h := range args {
		v := c.Evaluate(h)
		if !v.IsValid() && v.Sentinel == types.SentinelError {
			return types.Invalid
		}
		fmt.Fprintln(c.Output(), c.Format(v))
	}
	return types.Void
}

// fnDbg dumps the tree of its unevaluated argument.
func fnDbg(c functions.Caller, args []types.Handle) types.Value {
	if len(args) != 1 {
		return c.Fail(types.ErrBadArguments, "dbg expects one argument, got %d", len(args))
	}
	if err := format.Tree(c.Output(), c.Arena(), args[0]); err != nil {
		return c.Fail(types.ErrBadArguments, "dbg: %v", err)
	}
	return types.Void
}

// fnDbgType prints the kind of its evaluated argument.
func fnDbgType(c functions.Caller, args []types.Handle) types.Value {
	if len(args) != 1 {
		return c.Fail(types.ErrBadArguments, "dbg_type expects one argument, got %d", len(args))
	}
	v := c.Evaluate(args[0])
	if !v.IsValid() && v.Sentinel == types.SentinelError {
		return types.Invalid
	}
	fmt.Fprintln(c.Output(), v.Kind)
	return types.Void
}

// fnDbgIdent dumps the tree bound to a variable without evaluating it.
func fnDbgIdent(c functions.Caller, args []types.Handle) types.Value {
	if len(args) != 1 {
		return c.Fail(types.ErrBadArguments, "dbg_ident expects one identifier, got %d arguments", len(args))
	}
	name, ok := identArg(c.Arena(), args[0])
	if !ok {
		return c.Fail(types.ErrBadArguments, "dbg_ident expects an identifier")
	}
	e, ok := c.(*Evaluator)
	if !ok {
		return c.Fail(types.ErrBadArguments, "dbg_ident needs a session")
	}
	bound, ok := e.bindings.Get(name)
	if !ok {
		return c.Fail(types.ErrUndefinedVariable, "undefined identifier '%s'", name)
	}
	fmt.Fprintf(c.Output(), "%s =\n", name)
	if err := format.Tree(c.Output(), c.Arena(), bound); err != nil {
		return c.Fail(types.ErrBadArguments, "dbg_ident: %v", err)
	}
	return types.Void
}

// Settings accepted by config_set.
const (
	settingPrecision        = "precision"
	settingFullPrecision    = "full_prec_floats"
	settingBoolsAsNumbers   = "bools_are_nums"
	settingEstimateEquality = "estimate_equality"
)

// fnConfigSet changes a session setting: config_set{setting, value}.
func fnConfigSet(c functions.Caller, args []types.Handle) types.Value {
	if len(args) != 2 {
		return c.Fail(types.ErrBadArguments, "config_set expects a setting and a value, got %d arguments", len(args))
	}
	setting, ok := identArg(c.Arena(), args[0])
	if !ok {
		return c.Fail(types.ErrBadArguments, "config_set: setting must be an identifier")
	}
	e, ok := c.(*Evaluator)
	if !ok {
		return c.Fail(types.ErrBadArguments, "config_set needs a session")
	}

	v := c.Evaluate(args[1])
	if !v.IsValid() {
		return e.invalidOperand(v, e.callPos)
	}

	cfg := e.FormatConfig()
	switch setting {
	case settingPrecision:
		n, ok := wholeNumber(v)
		if !ok || n < 0 {
			return c.Fail(types.ErrBadArguments, "config_set: precision must be a non-negative number, got %s", e.Format(v))
		}
		cfg.Precision = n
	case settingFullPrecision:
		b, ok := truthy(v)
		if !ok {
			return c.Fail(types.ErrBadArguments, "config_set: %s expects a boolean, got %s", setting, v.Kind)
		}
		cfg.FullPrecision = b
	case settingBoolsAsNumbers:
		b, ok := truthy(v)
		if !ok {
			return c.Fail(types.ErrBadArguments, "config_set: %s expects a boolean, got %s", setting, v.Kind)
		}
		cfg.BoolsAsNumbers = b
	case settingEstimateEquality:
		b, ok := truthy(v)
		if !ok {
			return c.Fail(types.ErrBadArguments, "config_set: %s expects a boolean, got %s", setting, v.Kind)
		}
		e.SetFuzzyEquality(b)
		return types.Void
	default:
		return c.Fail(types.ErrBadArguments, "config_set: unknown setting '%s'", setting)
	}

	if err := e.SetFormat(cfg); err != nil {
		return c.Fail(types.ErrBadArguments, "config_set: %v", err)
	}
	if e.opts.Debug {
		e.logger.Debug("setting changed", "setting", setting, "value", e.Format(v))
	}
	return types.Void
}
