package filterrule

import (
	"fmt"
	"strings"

	"github.com/MahdiBaghbani/sslguard/internal/macro"
	"github.com/MahdiBaghbani/sslguard/internal/sitematch"
)

// Outcome distinguishes "macro expansion happened" from a plain
// single-rule parse, so callers never have to infer it from slice
// length. Parse returns an Outcome alongside an error rather than
// folding both into one tri-state return value.
type Outcome int

const (
	// Added means the line produced exactly one rule with no macro
	// references.
	Added Outcome = iota
	// Expanded means the line contained at least one macro reference;
	// Parse's returned slice holds the full cartesian-product expansion
	// (which may still have length 1 if every referenced macro has a
	// single value).
	Expanded
)

// Parse tokenizes one rule line and expands any macro references,
// returning every concrete Rule the line produces. userAuthEnabled
// gates "from user"/"from desc" predicates.
func Parse(line string, lineNo int, tbl *macro.Table, userAuthEnabled bool) ([]*Rule, Outcome, error) {
	text := stripComment(line)
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil, Added, fmt.Errorf("line %d: empty filter rule", lineNo)
	}

	macroPositions, err := findMacros(tokens, tbl)
	if err != nil {
		return nil, Added, fmt.Errorf("line %d: %w", lineNo, err)
	}

	if len(macroPositions) == 0 {
		r, err := parseTokens(tokens, lineNo, userAuthEnabled)
		if err != nil {
			return nil, Added, err
		}
		r.raw = text
		return []*Rule{r}, Added, nil
	}

	combos := expand(tokens, macroPositions)
	rules := make([]*Rule, 0, len(combos))
	for _, combo := range combos {
		r, err := parseTokens(combo, lineNo, userAuthEnabled)
		if err != nil {
			return nil, Expanded, err
		}
		rules = append(rules, r)
	}
	return rules, Expanded, nil
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}
	return line
}

type macroPos struct {
	index  int
	values []string
}

// findMacros locates every "$name" token and resolves it against tbl.
// Each occurrence is its own expansion axis: the same macro name used
// twice in one rule contributes two independent axes, counted by
// reference rather than by distinct name.
func findMacros(tokens []string, tbl *macro.Table) ([]macroPos, error) {
	var out []macroPos
	for i, tok := range tokens {
		if !strings.HasPrefix(tok, "$") {
			continue
		}
		values, ok := tbl.Lookup(tok)
		if !ok {
			return nil, fmt.Errorf("undefined macro %q", tok)
		}
		out = append(out, macroPos{index: i, values: values})
	}
	return out, nil
}

// expand computes the cartesian product of every macro axis, returning
// one token slice per combination.
func expand(tokens []string, positions []macroPos) [][]string {
	combos := [][]string{append([]string(nil), tokens...)}
	for _, pos := range positions {
		var next [][]string
		for _, base := range combos {
			for _, v := range pos.values {
				cp := append([]string(nil), base...)
				cp[pos.index] = v
				next = append(next, cp)
			}
		}
		combos = next
	}
	return combos
}

// parseTokens performs the structural walk of one already-macro-free
// token sequence.
func parseTokens(tokens []string, lineNo int, userAuthEnabled bool) (*Rule, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("line %d: empty filter rule", lineNo)
	}

	action, ok := ParseAction(tokens[0])
	if !ok {
		return nil, fmt.Errorf("line %d: unknown filter action %q", lineNo, tokens[0])
	}

	r := &Rule{Action: action, SourceLine: lineNo}

	// "Action *" with no clause keyword at all is the bare wildcard
	// shorthand for an entirely unconstrained rule (no source, no
	// target, no log spec), distinct from "to ip *" or "from *".
	if len(tokens) == 2 && tokens[1] == "*" {
		r.ComputePrecedence()
		return r, nil
	}

	i := 1
	sawFrom, sawTo, sawLog := false, false, false

	for i < len(tokens) {
		switch tokens[i] {
		case "from":
			if sawFrom {
				return nil, fmt.Errorf("line %d: duplicate 'from' clause", lineNo)
			}
			sawFrom = true
			n, err := parseFrom(tokens, i+1, lineNo, userAuthEnabled, r)
			if err != nil {
				return nil, err
			}
			i = n

		case "to":
			if sawTo {
				return nil, fmt.Errorf("line %d: duplicate 'to' clause", lineNo)
			}
			sawTo = true
			n, err := parseTo(tokens, i+1, lineNo, r)
			if err != nil {
				return nil, err
			}
			i = n

		case "log":
			if sawLog {
				return nil, fmt.Errorf("line %d: duplicate 'log' clause", lineNo)
			}
			sawLog = true
			n, err := parseLog(tokens, i+1, lineNo, r)
			if err != nil {
				return nil, err
			}
			i = n

		default:
			return nil, fmt.Errorf("line %d: unexpected token %q", lineNo, tokens[i])
		}
	}

	r.ComputePrecedence()
	return r, nil
}

func parseFrom(tokens []string, i, lineNo int, userAuthEnabled bool, r *Rule) (int, error) {
	if i >= len(tokens) {
		return 0, fmt.Errorf("line %d: 'from' requires a value", lineNo)
	}
	switch tokens[i] {
	case "*":
		r.Source.AllUsers = true
		return i + 1, nil
	case "user":
		if !userAuthEnabled {
			return 0, fmt.Errorf("line %d: 'from user' requires UserAuth=yes", lineNo)
		}
		if i+1 >= len(tokens) {
			return 0, fmt.Errorf("line %d: 'from user' requires a value", lineNo)
		}
		r.Source.HasUser = true
		r.Source.User = tokens[i+1]
		return i + 2, nil
	case "desc":
		if !userAuthEnabled {
			return 0, fmt.Errorf("line %d: 'from desc' requires UserAuth=yes", lineNo)
		}
		if i+1 >= len(tokens) {
			return 0, fmt.Errorf("line %d: 'from desc' requires a value", lineNo)
		}
		r.Source.HasDesc = true
		r.Source.Desc = tokens[i+1]
		return i + 2, nil
	case "ip":
		if i+1 >= len(tokens) {
			return 0, fmt.Errorf("line %d: 'from ip' requires a value", lineNo)
		}
		r.Source.HasIP = true
		r.Source.IP = tokens[i+1]
		return i + 2, nil
	default:
		return 0, fmt.Errorf("line %d: expected user|desc|ip|* after 'from', got %q", lineNo, tokens[i])
	}
}

func parseTo(tokens []string, i, lineNo int, r *Rule) (int, error) {
	if i >= len(tokens) {
		return 0, fmt.Errorf("line %d: 'to' requires a value", lineNo)
	}
	switch tokens[i] {
	case "*":
		// Bare wildcard destination: matches every site on the dstip
		// channel, the same sentinel an IP-based filter uses for an
		// unconstrained destination.
		r.Target.Apply = ApplyDstIP
		r.Target.HasSite = true
		r.Target.Site = sitematch.Normalize("*")
		return i + 1, nil

	case "port":
		if i+1 >= len(tokens) {
			return 0, fmt.Errorf("line %d: 'to port' requires a value", lineNo)
		}
		r.Target.HasPort = true
		r.Target.Port = tokens[i+1]
		return i + 2, nil

	default:
		apply, ok := ParseApplyTo(tokens[i])
		if !ok {
			return 0, fmt.Errorf("line %d: unknown 'to' channel %q", lineNo, tokens[i])
		}
		if i+1 >= len(tokens) {
			return 0, fmt.Errorf("line %d: 'to %s' requires a value", lineNo, tokens[i])
		}
		r.Target.Apply = apply
		r.Target.HasSite = true
		r.Target.Site = sitematch.Normalize(tokens[i+1])
		n := i + 2
		if n < len(tokens) && tokens[n] == "port" {
			if n+1 >= len(tokens) {
				return 0, fmt.Errorf("line %d: 'port' requires a value", lineNo)
			}
			r.Target.HasPort = true
			r.Target.Port = tokens[n+1]
			n += 2
		}
		return n, nil
	}
}

func parseLog(tokens []string, i, lineNo int, r *Rule) (int, error) {
	if i >= len(tokens) {
		return 0, fmt.Errorf("line %d: 'log' requires at least one channel", lineNo)
	}
	n := i
	for n < len(tokens) {
		tok := tokens[n]
		if tok == "from" || tok == "to" {
			break
		}
		neg := strings.HasPrefix(tok, "!")
		name := strings.TrimPrefix(tok, "!")

		if name == "*" {
			all := LogConnect | LogMaster | LogCert | LogContent | LogPcap | LogMirror
			if neg {
				r.Log.Neg |= all
			} else {
				r.Log.Pos |= all
			}
			n++
			continue
		}

		ch, ok := ParseLogChannel(name)
		if !ok {
			return 0, fmt.Errorf("line %d: unknown log channel %q", lineNo, tok)
		}
		if neg {
			r.Log.Neg |= ch
		} else {
			r.Log.Pos |= ch
		}
		n++
	}
	return n, nil
}
