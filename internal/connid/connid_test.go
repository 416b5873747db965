package connid

import "testing"

func TestNewReturnsDistinctIDs(t *testing.T) {
	a := New()
	b := New()
	if a == "" || b == "" {
		t.Fatal("expected non-empty ids")
	}
	if a == b {
		t.Error("expected two calls to produce distinct ids")
	}
}
