package macro

import "testing"

func TestDefineAndLookup(t *testing.T) {
	tbl := New()
	if err := tbl.Define("$ips", []string{"192.168.0.1", "192.168.0.2"}); err != nil {
		t.Fatalf("Define() error = %v", err)
	}
	vals, ok := tbl.Lookup("$ips")
	if !ok {
		t.Fatal("Lookup() ok = false, want true")
	}
	if len(vals) != 2 || vals[0] != "192.168.0.1" || vals[1] != "192.168.0.2" {
		t.Errorf("Lookup() = %v, want [192.168.0.1 192.168.0.2]", vals)
	}
}

func TestDefineRejectsMissingSigil(t *testing.T) {
	tbl := New()
	if err := tbl.Define("ips", []string{"1"}); err == nil {
		t.Error("Define() without '$' prefix should fail")
	}
}

func TestDefineRejectsEmptyValues(t *testing.T) {
	tbl := New()
	if err := tbl.Define("$empty", nil); err == nil {
		t.Error("Define() with no values should fail")
	}
}

func TestDefineRejectsNestedMacro(t *testing.T) {
	tbl := New()
	if err := tbl.Define("$a", []string{"$b"}); err == nil {
		t.Error("Define() referencing another macro should fail")
	}
}

func TestLookupMissing(t *testing.T) {
	tbl := New()
	if _, ok := tbl.Lookup("$missing"); ok {
		t.Error("Lookup() of undefined macro returned ok=true")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	tbl := New()
	_ = tbl.Define("$m", []string{"a", "b"})
	clone := tbl.Clone()

	_ = tbl.Define("$m", []string{"a", "b", "c"})

	vals, _ := clone.Lookup("$m")
	if len(vals) != 2 {
		t.Errorf("clone was affected by later mutation of original: got %v", vals)
	}
}

func TestNamesPreservesDeclarationOrder(t *testing.T) {
	tbl := New()
	_ = tbl.Define("$b", []string{"1"})
	_ = tbl.Define("$a", []string{"2"})
	names := tbl.Names()
	if len(names) != 2 || names[0] != "$b" || names[1] != "$a" {
		t.Errorf("Names() = %v, want [$b $a]", names)
	}
}
