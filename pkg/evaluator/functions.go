package evaluator

import (
	"math"
	"sync"

	"github.com/sandrolain/gomml/pkg/functions"
	"github.com/sandrolain/gomml/pkg/types"
)

var (
	builtinRegistry     *functions.Registry
	builtinRegistryOnce sync.Once
)

// initBuiltinFunctions initializes the builtin registry shared by every session.
func initBuiltinFunctions() {
	builtinRegistryOnce.Do(func() {
		r := functions.NewRegistry()
		r.Register(builtinConstants()...)
		r.Register(mathFunctions()...)
		r.Register(stdFunctions()...)
		builtinRegistry = r
	})
}

// builtins returns the shared builtin registry.
func builtins() *functions.Registry {
	initBuiltinFunctions()
	return builtinRegistry
}

// Builtins returns the builtin registry. It must not be modified; layer
// custom entries with WithFunctions or functions.NewOverlay instead.
func Builtins() *functions.Registry {
	return builtins()
}

// Phi is the golden ratio.
const Phi = 1.618033988749894848204586834365638117720309179805762862135

func builtinConstants() []functions.Entry {
	return []functions.Entry{
		functions.Constant{Name: "true", Value: types.Bool(true)},
		functions.Constant{Name: "false", Value: types.Bool(false)},
		functions.Constant{Name: "pi", Value: types.Real(math.Pi)},
		functions.Constant{Name: "e", Value: types.Real(math.E)},
		functions.Constant{Name: "phi", Value: types.Real(Phi)},
		functions.Constant{Name: "i", Value: types.Complex(complex(0, 1))},
		functions.Constant{Name: "nan", Value: types.Real(math.NaN())},
		functions.Constant{Name: "inf", Value: types.Real(math.Inf(1))},

		// REPL commands
		functions.Constant{Name: "exit", Value: types.Signal(types.SentinelQuit)},
		functions.Constant{Name: "clear", Value: types.Signal(types.SentinelClear)},
	}
}
