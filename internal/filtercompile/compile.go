// Package filtercompile folds a listener's flat filter-rule list into
// the layered lookup structure queried once per connection. Parsing
// only ever appends rules; Compile runs once, after parsing completes,
// and the result is read-only thereafter.
package filtercompile

import (
	"strings"

	"github.com/MahdiBaghbani/sslguard/internal/filterrule"
	"github.com/MahdiBaghbani/sslguard/internal/sitematch"
)

// substrGroup is one entry in a source-side substring list: a stripped
// prefix plus every rule stored under it, in declaration order.
type substrGroup struct {
	prefix string
	rules  []*filterrule.Rule
}

// Filter is the compiled, immutable lookup structure rooted in the ten
// buckets the lookup walk consults.
type Filter struct {
	userKeywordExact  map[string][]*filterrule.Rule
	userKeywordSubstr []substrGroup

	userExact  map[string][]*filterrule.Rule
	userSubstr []substrGroup

	keywordExact  map[string][]*filterrule.Rule
	keywordSubstr []substrGroup

	allUser []*filterrule.Rule

	ipExact  map[string][]*filterrule.Rule
	ipSubstr []substrGroup

	all []*filterrule.Rule
}

// Compile builds a Filter from every rule declared across a scope's
// filter-rule list, in declaration order.
func Compile(rules []*filterrule.Rule) *Filter {
	f := &Filter{
		userKeywordExact: make(map[string][]*filterrule.Rule),
		userExact:        make(map[string][]*filterrule.Rule),
		keywordExact:     make(map[string][]*filterrule.Rule),
		ipExact:          make(map[string][]*filterrule.Rule),
	}
	for _, r := range rules {
		f.add(r)
	}
	return f
}

func (f *Filter) add(r *filterrule.Rule) {
	src := r.Source
	switch {
	case src.HasUser && src.HasDesc:
		u := sitematch.Normalize(src.User)
		d := sitematch.Normalize(src.Desc)
		if u.Substring || d.Substring {
			f.userKeywordSubstr = appendSubstr(f.userKeywordSubstr, u.Token+"\x00"+d.Token, r)
		} else {
			key := u.Token + "\x00" + d.Token
			f.userKeywordExact[key] = append(f.userKeywordExact[key], r)
		}

	case src.HasUser:
		u := sitematch.Normalize(src.User)
		if u.Substring {
			f.userSubstr = appendSubstr(f.userSubstr, u.Token, r)
		} else {
			f.userExact[u.Token] = append(f.userExact[u.Token], r)
		}

	case src.HasDesc:
		d := sitematch.Normalize(src.Desc)
		if d.Substring {
			f.keywordSubstr = appendSubstr(f.keywordSubstr, d.Token, r)
		} else {
			f.keywordExact[d.Token] = append(f.keywordExact[d.Token], r)
		}

	case src.AllUsers:
		f.allUser = append(f.allUser, r)

	case src.HasIP:
		ip := sitematch.Normalize(src.IP)
		if ip.Substring {
			f.ipSubstr = appendSubstr(f.ipSubstr, ip.Token, r)
		} else {
			f.ipExact[ip.Token] = append(f.ipExact[ip.Token], r)
		}

	default:
		f.all = append(f.all, r)
	}
}

func appendSubstr(groups []substrGroup, prefix string, r *filterrule.Rule) []substrGroup {
	for i := range groups {
		if groups[i].prefix == prefix {
			groups[i].rules = append(groups[i].rules, r)
			return groups
		}
	}
	return append(groups, substrGroup{prefix: prefix, rules: []*filterrule.Rule{r}})
}

// Query is one connection's lookup key. SourceIP is always known;
// User/Desc are optional per-connection facts (set only once user
// authentication has identified the connection).
type Query struct {
	User    string
	HasUser bool
	Desc    string
	HasDesc bool

	SourceIP string

	Channel filterrule.ApplyTo
	Site    string
	Port    string
	HasPort bool
}

// Decision is the resolved outcome of a Lookup: the merged action and
// log masks of every rule tied at the winning precedence.
type Decision struct {
	Action     filterrule.Action
	Log        filterrule.LogChannel
	Precedence int
	Matched    []*filterrule.Rule
}

// Lookup walks the compiled filter per the lookup contract: it
// consults the mutually-exclusive userkeyword/user/keyword bucket
// implied by which of User/Desc the query knows (none, if neither is
// known), plus the always-consulted allUser, ip, and all buckets; then
// picks the highest-precedence rule(s) whose target predicate is
// compatible with the query. Among those, an exact site shadows a
// substring site, which shadows all_sites (or no site at all); the
// rules left at that level are OR-merged.
func (f *Filter) Lookup(q Query) (*Decision, bool) {
	var candidates []*filterrule.Rule

	switch {
	case q.HasUser && q.HasDesc:
		candidates = append(candidates, lookupExactOrSubstr(f.userKeywordExact, f.userKeywordSubstr, q.User+"\x00"+q.Desc)...)
	case q.HasUser:
		candidates = append(candidates, lookupExactOrSubstr(f.userExact, f.userSubstr, q.User)...)
	case q.HasDesc:
		candidates = append(candidates, lookupExactOrSubstr(f.keywordExact, f.keywordSubstr, q.Desc)...)
	}

	candidates = append(candidates, f.allUser...)
	candidates = append(candidates, lookupExactOrSubstr(f.ipExact, f.ipSubstr, q.SourceIP)...)
	candidates = append(candidates, f.all...)

	var compatible []*filterrule.Rule
	for _, r := range candidates {
		if targetMatches(r, q) {
			compatible = append(compatible, r)
		}
	}
	if len(compatible) == 0 {
		return nil, false
	}

	best, bestSite := 0, 0
	for _, r := range compatible {
		if s := siteRank(r.Target); r.Precedence > best || (r.Precedence == best && s > bestSite) {
			best, bestSite = r.Precedence, s
		}
	}

	d := &Decision{Precedence: best}
	var log filterrule.LogMask
	for _, r := range compatible {
		if r.Precedence != best || siteRank(r.Target) != bestSite {
			continue
		}
		d.Action |= r.Action
		log = log.Merge(r.Log)
		d.Matched = append(d.Matched, r)
	}
	d.Log = log.Resolve()
	return d, true
}

// siteRank orders site leaves from least to most specific: no site or
// all_sites, then a substring prefix, then an exact site.
func siteRank(t filterrule.TargetPredicate) int {
	switch {
	case !t.HasSite || t.Site.Token == sitematch.AllSites:
		return 1
	case t.Site.Substring:
		return 2
	}
	return 3
}

func lookupExactOrSubstr(exact map[string][]*filterrule.Rule, substr []substrGroup, key string) []*filterrule.Rule {
	var out []*filterrule.Rule
	out = append(out, exact[key]...)
	for _, g := range substr {
		if g.prefix == sitematch.AllSites || strings.HasPrefix(key, g.prefix) {
			out = append(out, g.rules...)
		}
	}
	return out
}

// targetMatches reports whether rule r's "to" predicate (if any) is
// compatible with query q. A rule with no "to" clause matches every
// channel/site/port.
func targetMatches(r *filterrule.Rule, q Query) bool {
	t := r.Target
	if t.Apply == 0 && !t.HasSite && !t.HasPort {
		return true
	}
	if t.Apply != 0 && t.Apply&q.Channel == 0 {
		return false
	}
	if t.HasSite {
		if t.Site.Token == sitematch.AllSites {
			// matches every site on this channel
		} else if t.Site.Substring {
			if !strings.HasPrefix(q.Site, t.Site.Token) {
				return false
			}
		} else if t.Site.Token != q.Site {
			return false
		}
	}
	if t.HasPort {
		if !q.HasPort || t.Port != q.Port {
			return false
		}
	}
	return true
}
