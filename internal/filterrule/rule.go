// Package filterrule implements the filter-rule parser: it tokenizes
// one rule line (or block) into predicate slots, expands any macro
// references into the cartesian product of concrete rules, and
// computes each rule's precedence.
package filterrule

import "github.com/MahdiBaghbani/sslguard/internal/sitematch"

// Action is a five-bit mask over the five filter actions. A rule's
// action field may combine bits only through merge at compile time; a
// freshly parsed rule carries exactly one bit (ActionMatch for Match).
type Action uint8

const (
	ActionDivert Action = 1 << iota
	ActionSplit
	ActionPass
	ActionBlock
	ActionMatch
)

// String renders the set bits in canonical declaration order, comma
// separated.
func (a Action) String() string {
	names := []struct {
		bit  Action
		name string
	}{
		{ActionDivert, "Divert"},
		{ActionSplit, "Split"},
		{ActionPass, "Pass"},
		{ActionBlock, "Block"},
		{ActionMatch, "Match"},
	}
	out := ""
	for _, e := range names {
		if a&e.bit != 0 {
			if out != "" {
				out += ","
			}
			out += e.name
		}
	}
	return out
}

// ParseAction maps a rule keyword onto its Action bit.
func ParseAction(s string) (Action, bool) {
	switch s {
	case "Divert":
		return ActionDivert, true
	case "Split":
		return ActionSplit, true
	case "Pass":
		return ActionPass, true
	case "Block":
		return ActionBlock, true
	case "Match":
		return ActionMatch, true
	default:
		return 0, false
	}
}

// LogChannel is one bit of the six-channel log mask.
type LogChannel uint8

const (
	LogConnect LogChannel = 1 << iota
	LogMaster
	LogCert
	LogContent
	LogPcap
	LogMirror
)

var logChannelNames = map[string]LogChannel{
	"connect": LogConnect,
	"master":  LogMaster,
	"cert":    LogCert,
	"content": LogContent,
	"pcap":    LogPcap,
	"mirror":  LogMirror,
}

// ParseLogChannel maps a log clause token (without its optional "!"
// negation prefix) onto its channel bit.
func ParseLogChannel(s string) (LogChannel, bool) {
	c, ok := logChannelNames[s]
	return c, ok
}

// LogMask is a positive/negative pair of six-bit channel masks. A bit
// set in Neg clears the corresponding bit in Pos when two rules'
// LogMasks are merged.
type LogMask struct {
	Pos LogChannel
	Neg LogChannel
}

// Merge ORs two masks' positive and negative bits together, matching
// negation application happens once, at the point the merged mask is
// turned into an effective mask via Resolve.
func (m LogMask) Merge(other LogMask) LogMask {
	return LogMask{Pos: m.Pos | other.Pos, Neg: m.Neg | other.Neg}
}

// Resolve applies negations: a bit set in Neg clears it in the result
// even if also set in Pos.
func (m LogMask) Resolve() LogChannel {
	return m.Pos &^ m.Neg
}

// Empty reports whether the mask carries no log specification at all
// (used by the precedence formula's "log mask non-empty" term).
func (m LogMask) Empty() bool {
	return m.Pos == 0 && m.Neg == 0
}

// ApplyTo is the bitmask selecting which destination channels a
// target-site predicate matches against.
type ApplyTo uint8

const (
	ApplyDstIP ApplyTo = 1 << iota
	ApplySNI
	ApplyCN
	ApplyHost
	ApplyURI
)

var applyToNames = map[string]ApplyTo{
	"ip":   ApplyDstIP,
	"sni":  ApplySNI,
	"cn":   ApplyCN,
	"host": ApplyHost,
	"uri":  ApplyURI,
}

// ParseApplyTo maps a "to" clause keyword onto its channel bit.
func ParseApplyTo(s string) (ApplyTo, bool) {
	c, ok := applyToNames[s]
	return c, ok
}

// SourcePredicate holds the optional "from" clause of a rule: at most
// one of AllUsers, User/Desc, or IP is populated (the grammar only
// allows one "from" clause per rule).
type SourcePredicate struct {
	AllUsers bool
	User     string
	HasUser  bool
	Desc     string
	HasDesc  bool
	IP       string
	HasIP    bool
}

// None reports whether the rule has no source constraint at all
// (feeds the "all_filter"/"all_user_filter" bucket choice and the
// precedence formula's first term).
func (s SourcePredicate) None() bool {
	return !s.AllUsers && !s.HasUser && !s.HasDesc && !s.HasIP
}

// TargetPredicate holds the optional "to" clause: a site token (under
// apply-to channels) and/or a bare port token.
type TargetPredicate struct {
	Apply   ApplyTo // zero means no "to" clause at all
	Site    sitematch.Site
	HasSite bool
	Port    string
	HasPort bool
}

// Rule is one compiled-ready filter rule. A single parsed rule-text
// line may expand into many Rule values when it contains macro
// references.
type Rule struct {
	Source SourcePredicate
	Target TargetPredicate
	Action Action
	Log    LogMask

	// Precedence is computed once by ComputePrecedence() when the rule
	// is parsed and cached here; kept as a plain field (not a method
	// call site) so that equal-precedence bucket merges can read it
	// directly.
	Precedence int

	// SourceLine is the 1-based line number the rule was declared on,
	// kept for diagnostics.
	SourceLine int

	// raw is the original rule text of a macro-free rule; it is left
	// empty for rules produced by macro expansion.
	raw string
}

// ComputePrecedence implements the rule-specificity formula:
//
//	(has source constraint ? 1 : 0) + (has site token ? 1 : 0) +
//	(has port token ? 1 : 0) + (action is Block ? 1 : 0) +
//	(log mask non-empty ? 1 : 0)
func (r *Rule) ComputePrecedence() int {
	p := 0
	if !r.Source.None() {
		p++
	}
	if r.Target.HasSite {
		p++
	}
	if r.Target.HasPort {
		p++
	}
	if r.Action&Action(ActionBlock) != 0 {
		p++
	}
	if !r.Log.Empty() {
		p++
	}
	r.Precedence = p
	return p
}
