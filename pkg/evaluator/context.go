package evaluator

import (
	"fmt"
	"io"
	"sort"

	"github.com/sandrolain/gomml/pkg/types"
)

// Bindings maintains the variable table of a session.
//
// Variables map names to unevaluated expressions. Inserted values, addressed
// as $name, are kept in a separate table filled by the host.
type Bindings struct {
	// vars stores user assignments
	vars map[string]types.Handle

	// inserted stores host-provided values
	inserted map[string]types.Handle
}

// NewBindings creates an empty variable table.
func NewBindings() *Bindings {
	return &Bindings{
		vars:     make(map[string]types.Handle),
		inserted: make(map[string]types.Handle),
	}
}

// Set binds name to h, replacing an earlier binding.
func (b *Bindings) Set(name string, h types.Handle) {
	b.vars[name] = h
}

// Get retrieves the expression bound to name.
func (b *Bindings) Get(name string) (types.Handle, bool) {
	h, ok := b.vars[name]
	return h, ok
}

// Delete removes the binding of name.
func (b *Bindings) Delete(name string) {
	delete(b.vars, name)
}

// Insert binds $name to h.
func (b *Bindings) Insert(name string, h types.Handle) {
	b.inserted[name] = h
}

// Inserted retrieves the node bound to $name.
func (b *Bindings) Inserted(name string) (types.Handle, bool) {
	h, ok := b.inserted[name]
	return h, ok
}

// Names returns the sorted variable names.
func (b *Bindings) Names() []string {
	names := make([]string, 0, len(b.vars))
	for name := range b.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of variables.
func (b *Bindings) Len() int {
	return len(b.vars)
}

// String returns a string representation of the table.
func (b *Bindings) String() string {
	return fmt.Sprintf("Bindings{vars=%d, inserted=%d}", len(b.vars), len(b.inserted))
}

// lineWriter remembers whether the last byte written was a newline.
type lineWriter struct {
	w        io.Writer
	endsLine bool
}

func (l *lineWriter) Write(p []byte) (int, error) {
	n, err := l.w.Write(p)
	if n > 0 {
		l.endsLine = p[n-1] == '\n'
	}
	return n, err
}

// isIdentifier reports whether name is a valid identifier.
func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
