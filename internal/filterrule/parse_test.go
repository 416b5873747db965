package filterrule

import (
	"testing"

	"github.com/MahdiBaghbani/sslguard/internal/macro"
)

func TestParseBareWildcard(t *testing.T) {
	for _, tc := range []struct {
		action string
		prec   int
	}{
		{"Divert", 0},
		{"Split", 0},
		{"Pass", 0},
		{"Match", 0},
		{"Block", 1},
	} {
		rules, outcome, err := Parse(tc.action+" *", 1, macro.New(), false)
		if err != nil {
			t.Fatalf("%s *: unexpected error: %v", tc.action, err)
		}
		if outcome != Added {
			t.Fatalf("%s *: expected Added, got %v", tc.action, outcome)
		}
		if len(rules) != 1 {
			t.Fatalf("%s *: expected 1 rule, got %d", tc.action, len(rules))
		}
		r := rules[0]
		if !r.Source.None() || r.Target.Apply != 0 || r.Target.HasSite || r.Target.HasPort {
			t.Fatalf("%s *: expected fully unconstrained rule, got %+v", tc.action, r)
		}
		if r.Precedence != tc.prec {
			t.Fatalf("%s *: expected precedence %d, got %d", tc.action, tc.prec, r.Precedence)
		}
	}
}

func TestParseIPMacroExpansion(t *testing.T) {
	tbl := macro.New()
	if err := tbl.Define("$m", []string{"192.168.0.1", "192.168.0.2"}); err != nil {
		t.Fatal(err)
	}
	rules, outcome, err := Parse("Pass from ip $m", 1, tbl, false)
	if err != nil {
		t.Fatal(err)
	}
	if outcome != Expanded {
		t.Fatalf("expected Expanded, got %v", outcome)
	}
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rules))
	}
	seen := map[string]bool{}
	for _, r := range rules {
		seen[r.Source.IP] = true
	}
	if !seen["192.168.0.1"] || !seen["192.168.0.2"] {
		t.Fatalf("expected both macro values present, got %+v", seen)
	}
}

func TestParseUserPredicateGating(t *testing.T) {
	if _, _, err := Parse("Divert from user *", 1, macro.New(), false); err == nil {
		t.Fatal("expected error when UserAuth is disabled")
	}
	if _, _, err := Parse("Divert from user *", 1, macro.New(), true); err != nil {
		t.Fatalf("unexpected error with UserAuth enabled: %v", err)
	}
}

func TestParseCartesianProduct(t *testing.T) {
	tbl := macro.New()
	_ = tbl.Define("$ips", []string{"192.168.0.1", "192.168.0.2"})
	_ = tbl.Define("$dstips", []string{"192.168.0.3", "192.168.0.4"})
	_ = tbl.Define("$ports", []string{"80", "443"})
	_ = tbl.Define("$logs", []string{"!master", "!pcap"})

	rules, outcome, err := Parse("Match from ip $ips to ip $dstips port $ports log $logs", 1, tbl, false)
	if err != nil {
		t.Fatal(err)
	}
	if outcome != Expanded {
		t.Fatalf("expected Expanded, got %v", outcome)
	}
	if len(rules) != 16 {
		t.Fatalf("expected 16 rules, got %d", len(rules))
	}
	for _, r := range rules {
		if r.Precedence != 4 {
			t.Fatalf("expected precedence 4, got %d for rule %+v", r.Precedence, r)
		}
		if r.Log.Pos != 0 {
			t.Fatalf("expected each rule to carry only a negated channel, got Pos=%v", r.Log.Pos)
		}
		if r.Log.Neg != LogMaster && r.Log.Neg != LogPcap {
			t.Fatalf("expected negated master or pcap, got %v", r.Log.Neg)
		}
	}
}

func TestParseSiteSubstring(t *testing.T) {
	rules, _, err := Parse("Match from ip 192.168.0.2 to ip 192.168.0.*", 1, macro.New(), false)
	if err != nil {
		t.Fatal(err)
	}
	r := rules[0]
	if !r.Target.Site.Substring || r.Target.Site.Token != "192.168.0." {
		t.Fatalf("expected stripped substring token, got %+v", r.Target.Site)
	}
}

func TestParseClauseOrderCommutes(t *testing.T) {
	a, _, err := Parse("Divert from ip 10.0.0.1 to sni example.com log connect", 1, macro.New(), false)
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := Parse("Divert log connect to sni example.com from ip 10.0.0.1", 1, macro.New(), false)
	if err != nil {
		t.Fatal(err)
	}
	ra, rb := a[0], b[0]
	if ra.Action != rb.Action || ra.Source != rb.Source || ra.Target != rb.Target || ra.Log != rb.Log || ra.Precedence != rb.Precedence {
		t.Fatalf("clause order changed compiled output: %+v vs %+v", ra, rb)
	}
}

func TestParseUnknownMacroRejected(t *testing.T) {
	if _, _, err := Parse("Pass from ip $undefined", 1, macro.New(), false); err == nil {
		t.Fatal("expected error for undefined macro")
	}
}
