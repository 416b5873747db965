package confparse

import (
	"fmt"
	"strings"

	"github.com/MahdiBaghbani/sslguard/internal/globalstate"
)

// ApplyOverride applies one "-o KEY=VALUE" command-line override,
// looking KEY up first in the global-only dispatch table (process-scope
// fields like PidFile) and then in the table for g's top-level Options.
func ApplyOverride(g *globalstate.Global, kv string) error {
	name, value, ok := strings.Cut(kv, "=")
	if !ok {
		return fmt.Errorf("-o %q: expected KEY=VALUE", kv)
	}
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)

	if name == "Divert" {
		return dispatchDivert(&Directive{
			Name: Token{Value: "Divert"},
			Args: []Token{{Value: value}},
		}, g.Options)
	}

	if setter, ok := GlobalDispatch(g)[name]; ok {
		return setter(name, value)
	}
	if setter, ok := OptionsDispatch(g.Options)[name]; ok {
		return setter(name, value)
	}
	return fmt.Errorf("-o: unknown key %q", name)
}
