// Package format renders gomml values and ASTs as text.
//
// Reals follow printf's %g (or %f with full precision) at a configurable
// precision, complex numbers print as "re+imi" and vectors as "[a, b, c]".
// With a locale set, reals are written with that locale's digit grouping and
// decimal separator through golang.org/x/text.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/sandrolain/gomml/pkg/types"
)

// DefaultPrecision is the number of significant digits printed for reals.
const DefaultPrecision = 6

// Config holds formatting settings.
type Config struct {
	// Precision is the %g precision, or the number of decimals with FullPrecision.
	Precision int `yaml:"precision"`
	// FullPrecision prints reals as %f instead of %g.
	FullPrecision bool `yaml:"full_precision"`
	// BoolsAsNumbers prints booleans as 1 and 0.
	BoolsAsNumbers bool `yaml:"bools_are_nums"`
	// Locale is a BCP 47 tag such as "en" or "de-CH". Empty disables grouping.
	Locale string `yaml:"locale"`
}

// DefaultConfig returns the default settings.
func DefaultConfig() Config {
	return Config{Precision: DefaultPrecision}
}

// Elements resolves vector elements while formatting.
type Elements interface {
	Arena() *types.Arena
	Evaluate(h types.Handle) types.Value
}

// Formatter renders values. It is immutable; build a new one to change settings.
type Formatter struct {
	cfg     Config
	printer *message.Printer
}

// New creates a formatter. It fails only on a malformed locale tag.
func New(cfg Config) (*Formatter, error) {
	if cfg.Precision < 0 {
		cfg.Precision = DefaultPrecision
	}
	f := &Formatter{cfg: cfg}
	if cfg.Locale != "" {
		tag, err := language.Parse(cfg.Locale)
		if err != nil {
			return nil, fmt.Errorf("format: locale %q: %w", cfg.Locale, err)
		}
		f.printer = message.NewPrinter(tag)
	}
	return f, nil
}

// Default returns a formatter with DefaultConfig.
func Default() *Formatter {
	return &Formatter{cfg: DefaultConfig()}
}

// Config returns the formatter's settings.
func (f *Formatter) Config() Config {
	return f.cfg
}

// Value renders v. Vector elements are evaluated through elems. Without
// elems, or once its arena is gone, elements print as "?". Vectors nested
// deeper than types.MaxNesting print as "...".
func (f *Formatter) Value(v types.Value, elems Elements) string {
	var arena *types.Arena
	if elems != nil {
		arena = elems.Arena()
	}
	var b strings.Builder
	f.write(&b, v, elems, arena, 0)
	return b.String()
}

func (f *Formatter) write(b *strings.Builder, v types.Value, elems Elements, arena *types.Arena, depth int) {
	switch v.Kind {
	case types.KindReal:
		b.WriteString(f.Real(v.Real))
	case types.KindInteger:
		b.WriteString(strconv.FormatInt(v.Int, 10))
	case types.KindComplex:
		b.WriteString(f.Complex(v.Complex))
	case types.KindBoolean:
		if f.cfg.BoolsAsNumbers {
			b.WriteString(f.Real(v.Number()))
		} else {
			b.WriteString(strconv.FormatBool(v.Bool))
		}
	case types.KindVector:
		if depth >= types.MaxNesting {
			b.WriteString("...")
			return
		}
		b.WriteByte('[')
		for i := 0; i < v.Len(); i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			if arena == nil {
				b.WriteString("?")
				continue
			}
			f.write(b, elems.Evaluate(arena.Elem(v.Vec, i)), elems, arena, depth+1)
		}
		b.WriteByte(']')
	default:
		if v.Sentinel == types.SentinelError {
			b.WriteString("invalid")
		}
	}
}

// Real renders a real number.
func (f *Formatter) Real(x float64) string {
	switch {
	case math.IsNaN(x):
		return "nan"
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	}

	if f.printer != nil {
		opts := []number.Option{number.MaxFractionDigits(f.cfg.Precision)}
		if f.cfg.FullPrecision {
			opts = append(opts, number.MinFractionDigits(f.cfg.Precision))
		}
		return f.printer.Sprintf("%v", number.Decimal(x, opts...))
	}
	if f.cfg.FullPrecision {
		return fmt.Sprintf("%.*f", f.cfg.Precision, x)
	}
	return fmt.Sprintf("%.*g", f.cfg.Precision, x)
}

// Complex renders a complex number as "re+imi".
func (f *Formatter) Complex(c complex128) string {
	re := f.Real(real(c))
	im := f.Real(imag(c))
	if !strings.HasPrefix(im, "-") {
		im = "+" + im
	}
	return re + im + "i"
}
