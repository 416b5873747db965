// Package macro implements the parser-scope macro table: named,
// whitespace-separated token lists expanded inside rule texts to
// produce a cartesian product of concrete rules at filter-rule parse
// time.
package macro

import (
	"fmt"
	"strings"
)

// Table holds the macros defined for the scope currently being parsed.
// Macros live for the duration of parsing that scope and are consumed
// by rule expansion; they are not shared across scopes
// and may not reference each other.
type Table struct {
	byName map[string][]string
	order  []string
}

// New returns an empty macro table.
func New() *Table {
	return &Table{byName: make(map[string][]string)}
}

// Define records a macro. name must start with "$"; values must be
// non-empty and must not themselves look like macro references, since
// macros may not refer to other macros.
func (t *Table) Define(name string, values []string) error {
	if !strings.HasPrefix(name, "$") {
		return fmt.Errorf("macro: name %q must start with '$'", name)
	}
	if len(values) == 0 {
		return fmt.Errorf("macro: %q has no values", name)
	}
	for _, v := range values {
		if strings.HasPrefix(v, "$") {
			return fmt.Errorf("macro: %q: value %q looks like a macro reference; macros may not refer to other macros", name, v)
		}
	}
	if t.byName == nil {
		t.byName = make(map[string][]string)
	}
	if _, exists := t.byName[name]; !exists {
		t.order = append(t.order, name)
	}
	cp := make([]string, len(values))
	copy(cp, values)
	t.byName[name] = cp
	return nil
}

// Lookup returns the values defined for name and whether it was found.
func (t *Table) Lookup(name string) ([]string, bool) {
	if t == nil || t.byName == nil {
		return nil, false
	}
	v, ok := t.byName[name]
	return v, ok
}

// Clone deep-copies the table, as required when Options.Clone
// deep-copies the owning scope's macro table.
func (t *Table) Clone() *Table {
	if t == nil {
		return New()
	}
	out := New()
	for _, name := range t.order {
		vals := t.byName[name]
		cp := make([]string, len(vals))
		copy(cp, vals)
		out.byName[name] = cp
		out.order = append(out.order, name)
	}
	return out
}

// Names returns macro names in declaration order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}
