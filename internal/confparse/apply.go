package confparse

import (
	"fmt"
	"strings"

	"github.com/MahdiBaghbani/sslguard/internal/filterrule"
	"github.com/MahdiBaghbani/sslguard/internal/globalstate"
	"github.com/MahdiBaghbani/sslguard/internal/listener"
	"github.com/MahdiBaghbani/sslguard/internal/options"
)

// maxIncludeDepth bounds Include nesting to one level: an included
// file may not itself Include another.
const maxIncludeDepth = 1

// ReadFileFunc loads the contents of an Include target. Injected so
// tests can supply an in-memory filesystem.
type ReadFileFunc func(path string) (string, error)

// Load parses src and applies every directive to g, switching the
// active Options scope between g.Options and the most recently opened
// listener's own cloned Options as listener declarations are seen.
func Load(src string, g *globalstate.Global, readFile ReadFileFunc) error {
	return load(src, g, readFile, 0)
}

func load(src string, g *globalstate.Global, readFile ReadFileFunc, includeDepth int) error {
	tokens := Tokenize(src)
	directives, errs := ParseDirectives(tokens)
	if len(errs) > 0 {
		return errs[0]
	}

	active := g.Options
	for _, d := range directives {
		if err := apply(d, g, &active, readFile, includeDepth); err != nil {
			return fmt.Errorf("line %d: %w", d.Line, err)
		}
	}
	return nil
}

func apply(d *Directive, g *globalstate.Global, active **options.Options, readFile ReadFileFunc, includeDepth int) error {
	name := d.Name.Value

	switch name {
	case "Include":
		if includeDepth >= maxIncludeDepth {
			return fmt.Errorf("Include nested too deep")
		}
		if len(d.Args) != 1 {
			return fmt.Errorf("Include: expected exactly one path argument")
		}
		if readFile == nil {
			return fmt.Errorf("Include: no file reader configured")
		}
		contents, err := readFile(d.Args[0].Value)
		if err != nil {
			return fmt.Errorf("Include %q: %w", d.Args[0].Value, err)
		}
		return load(contents, g, readFile, includeDepth+1)

	case "Define":
		if len(d.Args) < 2 {
			return fmt.Errorf("Define: expected a macro name and at least one value")
		}
		vals := make([]string, len(d.Args)-1)
		for i, tok := range d.Args[1:] {
			vals[i] = tok.Value
		}
		return (*active).Define(d.Args[0].Value, vals)

	case "Listener":
		spec, err := listener.ParseOneLine(joinArgs(d.Args), *active)
		if err != nil {
			return err
		}
		g.AddListener(spec)
		*active = spec.Options
		return nil

	case "ProxySpec":
		b := listener.NewBlockBuilder()
		for _, sub := range d.Body {
			if err := applyBlockDirective(b, sub); err != nil {
				return err
			}
		}
		spec, err := b.Close(*active)
		if err != nil {
			return err
		}
		g.AddListener(spec)
		*active = spec.Options
		return nil

	case "Divert":
		return dispatchDivert(d, *active)

	case "Split", "Pass", "Block", "Match":
		return applyFilterRule(d, *active)

	case "PassSite":
		// Sugar for a one-line "Pass to sni <value>" rule: an
		// unconditional allowlist entry for a destination name,
		// matched against the TLS SNI channel since that is the one
		// available before any certificate has been forged.
		if len(d.Args) != 1 {
			return fmt.Errorf("PassSite: expected exactly one site pattern")
		}
		return applyFilterRule(&Directive{
			Name: Token{Value: "Pass", Line: d.Line},
			Args: []Token{{Value: "to"}, {Value: "sni"}, d.Args[0]},
			Line: d.Line,
		}, *active)
	}

	if *active == g.Options {
		if setter, ok := GlobalDispatch(g)[name]; ok {
			return callSetter(setter, name, d.Args)
		}
	}
	if setter, ok := OptionsDispatch(*active)[name]; ok {
		return callSetter(setter, name, d.Args)
	}

	return fmt.Errorf("unknown directive %q", name)
}

// dispatchDivert disambiguates "Divert" between the boolean Options
// directive and the filter-rule action keyword: a bare yes/no value
// is the directive, anything else is the start of a rule line.
func dispatchDivert(d *Directive, active *options.Options) error {
	if len(d.Args) == 1 {
		if _, err := options.ParseBool(d.Args[0].Value); err == nil {
			return active.SetDivert("Divert", d.Args[0].Value)
		}
	}
	return applyFilterRule(d, active)
}

func applyFilterRule(d *Directive, active *options.Options) error {
	line := d.Text()
	rules, _, err := filterrule.Parse(line, d.Line, active.Macros, active.UserAuth)
	if err != nil {
		return err
	}
	for _, r := range rules {
		active.AddRule(r)
	}
	return nil
}

func applyBlockDirective(b *listener.BlockBuilder, d *Directive) error {
	if len(d.Args) != 1 {
		return fmt.Errorf("%s: expected exactly one value", d.Name.Value)
	}
	v := d.Args[0].Value
	switch d.Name.Value {
	case "Proto":
		return b.SetProto(d.Name.Value, v)
	case "Addr":
		return b.SetAddr(d.Name.Value, v)
	case "Port":
		return b.SetPort(d.Name.Value, v)
	case "TargetAddr":
		return b.SetTargetAddr(d.Name.Value, v)
	case "TargetPort":
		return b.SetTargetPort(d.Name.Value, v)
	case "DivertPort":
		return b.SetDivertPort(d.Name.Value, v)
	case "DivertAddr":
		return b.SetDivertAddr(d.Name.Value, v)
	case "ReturnAddr":
		return b.SetReturnAddr(d.Name.Value, v)
	case "NATEngine":
		return b.SetNATEngine(d.Name.Value, v)
	case "SNIPort":
		return b.SetSNIPort(d.Name.Value, v)
	}
	return fmt.Errorf("unknown ProxySpec field %q", d.Name.Value)
}

func joinArgs(args []Token) string {
	parts := make([]string, len(args))
	for i, t := range args {
		parts[i] = t.Value
	}
	return strings.Join(parts, " ")
}

func callSetter(s Setter, name string, args []Token) error {
	if len(args) != 1 {
		return fmt.Errorf("%s: expected exactly one value, got %d", name, len(args))
	}
	return s(name, args[0].Value)
}
