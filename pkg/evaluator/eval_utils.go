package evaluator

import (
	"math"

	"github.com/sandrolain/gomml/pkg/types"
)

// truthy converts a boolean or numeric setting value to a bool.
// Numbers are true when non-zero.
func truthy(v types.Value) (bool, bool) {
	switch v.Kind {
	case types.KindBoolean:
		return v.Bool, true
	case types.KindReal, types.KindInteger:
		return v.Number() != 0, true
	}
	return false, false
}

// wholeNumber converts a real within Epsilon of an integer to an int.
func wholeNumber(v types.Value) (int, bool) {
	if v.Kind != types.KindReal && v.Kind != types.KindInteger {
		return 0, false
	}
	f := v.Number()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	r := math.Round(f)
	if math.Abs(f-r) > Epsilon || math.Abs(r) > math.MaxInt32 {
		return 0, false
	}
	return int(r), true
}

// identArg returns the name of an identifier argument node.
func identArg(arena *types.Arena, h types.Handle) (string, bool) {
	n := arena.Node(h)
	if n.Kind != types.KindIdentifier {
		return "", false
	}
	return n.Name, true
}
