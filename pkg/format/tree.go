package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/sandrolain/gomml/pkg/types"
)

// Tree writes an indented dump of the AST rooted at h.
//
//	Operation(+):
//	  Left:
//	    RealNumber(2)
//	  Right:
//	    Identifier(x)
func Tree(w io.Writer, arena *types.Arena, h types.Handle) error {
	var b strings.Builder
	tree(&b, arena, h, 0)
	_, err := io.WriteString(w, b.String())
	return err
}

// TreeString returns the dump written by Tree.
func TreeString(arena *types.Arena, h types.Handle) string {
	var b strings.Builder
	tree(&b, arena, h, 0)
	return b.String()
}

func tree(b *strings.Builder, arena *types.Arena, h types.Handle, depth int) {
	indent := strings.Repeat("  ", depth)
	n := arena.Node(h)

	switch n.Kind {
	case types.KindOperation:
		if n.Op == types.OpFuncCall {
			fmt.Fprintf(b, "%sCall(%s):\n", indent, arena.Node(n.Left).Name)
			args := arena.Node(n.Right)
			for i := 0; i < int(args.Elems.Len); i++ {
				fmt.Fprintf(b, "%s  Arg %d:\n", indent, i)
				tree(b, arena, arena.Elem(args.Elems, i), depth+2)
			}
			return
		}
		fmt.Fprintf(b, "%sOperation(%s):\n", indent, n.Op)
		if n.Right == types.NoHandle {
			fmt.Fprintf(b, "%s  Operand:\n", indent)
			tree(b, arena, n.Left, depth+2)
			return
		}
		fmt.Fprintf(b, "%s  Left:\n", indent)
		tree(b, arena, n.Left, depth+2)
		fmt.Fprintf(b, "%s  Right:\n", indent)
		tree(b, arena, n.Right, depth+2)
	case types.KindInteger:
		fmt.Fprintf(b, "%sInteger(%d)\n", indent, n.Int)
	case types.KindReal:
		fmt.Fprintf(b, "%sRealNumber(%g)\n", indent, n.Real)
	case types.KindComplex:
		fmt.Fprintf(b, "%sComplexNumber(%g%+gi)\n", indent, real(n.Complex), imag(n.Complex))
	case types.KindBoolean:
		fmt.Fprintf(b, "%sBoolean(%t)\n", indent, n.Bool)
	case types.KindIdentifier:
		fmt.Fprintf(b, "%sIdentifier(%s)\n", indent, n.Name)
	case types.KindInserted:
		fmt.Fprintf(b, "%sInserted(%s)\n", indent, n.Name)
	case types.KindVector:
		fmt.Fprintf(b, "%sVector(n=%d):\n", indent, n.Elems.Len)
		for i := 0; i < int(n.Elems.Len); i++ {
			tree(b, arena, arena.Elem(n.Elems, i), depth+1)
		}
	default:
		fmt.Fprintf(b, "%sInvalid\n", indent)
	}
}
