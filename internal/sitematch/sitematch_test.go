package sitematch

import "testing"

func TestNormalizeBareWildcard(t *testing.T) {
	s := Normalize("*")
	if s.Token != AllSites || !s.Substring {
		t.Errorf("Normalize(*) = %+v, want AllSites substring entry", s)
	}
}

func TestNormalizeSubstringSuffix(t *testing.T) {
	s := Normalize("example.com*")
	if !s.Substring {
		t.Error("expected substring=true")
	}
	if s.Token != "example.com" {
		t.Errorf("Token = %q, want %q", s.Token, "example.com")
	}
}

func TestNormalizeExactToken(t *testing.T) {
	s := Normalize("example.com")
	if s.Substring {
		t.Error("expected substring=false")
	}
	if s.Token != "example.com" {
		t.Errorf("Token = %q, want %q", s.Token, "example.com")
	}
}

func TestNormalizeIDNHostname(t *testing.T) {
	s := Normalize("café.example")
	if s.Token != "xn--caf-dma.example" {
		t.Errorf("Token = %q, want punycode form", s.Token)
	}
}

func TestNormalizePassesThroughNonHostTokens(t *testing.T) {
	s := Normalize("2001:db8::1")
	if s.Token != "2001:db8::1" {
		t.Errorf("Token = %q, want unchanged IPv6 literal", s.Token)
	}
}

func TestLessOrdersAllSitesLast(t *testing.T) {
	all := Site{Token: AllSites, Substring: true}
	other := Site{Token: "example.com", Substring: true}
	if Less(all, other) {
		t.Error("expected AllSites to never sort before another entry")
	}
	if !Less(other, all) {
		t.Error("expected a concrete entry to sort before AllSites")
	}
}
