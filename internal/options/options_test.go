package options

import "testing"

func TestNewDefaults(t *testing.T) {
	o := New(nil)
	if !o.Divert {
		t.Error("expected Divert default true")
	}
	if !o.SSLCompression {
		t.Error("expected SSLCompression default true")
	}
	if o.MinSSLProto != DefaultMinSSLProto {
		t.Errorf("expected MinSSLProto %q, got %q", DefaultMinSSLProto, o.MinSSLProto)
	}
	if o.MaxSSLProto != HighestSSLProto {
		t.Errorf("expected MaxSSLProto %q, got %q", HighestSSLProto, o.MaxSSLProto)
	}
	if !o.VerifyPeer {
		t.Error("expected VerifyPeer default true")
	}
	if !o.RemoveHTTPReferer {
		t.Error("expected RemoveHTTPReferer default true")
	}
	if o.UserTimeout != 300 {
		t.Errorf("expected UserTimeout 300, got %d", o.UserTimeout)
	}
	if o.MaxHTTPHeaderSize != 8192 {
		t.Errorf("expected MaxHTTPHeaderSize 8192, got %d", o.MaxHTTPHeaderSize)
	}
}

func TestSetMinMaxSSLProtoOrdering(t *testing.T) {
	o := New(nil)
	if err := o.SetMaxSSLProto("test", "tls11"); err != nil {
		t.Fatal(err)
	}
	if err := o.SetMinSSLProto("test", "tls12"); err == nil {
		t.Fatal("expected error: min above max")
	}
	if err := o.SetMinSSLProto("test", "ssl3"); err != nil {
		t.Fatal(err)
	}
}

func TestSetForceSSLProtoRejectsUnknown(t *testing.T) {
	o := New(nil)
	if err := o.SetForceSSLProto("test", "tls99"); err == nil {
		t.Fatal("expected error for unknown protocol token")
	}
}

func TestSetMaxHTTPHeaderSizeRange(t *testing.T) {
	o := New(nil)
	if err := o.SetMaxHTTPHeaderSize("test", "100"); err == nil {
		t.Fatal("expected range error below 1024")
	}
	if err := o.SetMaxHTTPHeaderSize("test", "100000"); err == nil {
		t.Fatal("expected range error above 65536")
	}
	if err := o.SetMaxHTTPHeaderSize("test", "16384"); err != nil {
		t.Fatal(err)
	}
	if o.MaxHTTPHeaderSize != 16384 {
		t.Errorf("expected 16384, got %d", o.MaxHTTPHeaderSize)
	}
}

func TestSetLeafKeyRSABitsValidation(t *testing.T) {
	o := New(nil)
	if err := o.SetLeafKeyRSABits("test", "1500"); err == nil {
		t.Fatal("expected error for non-enumerated bit size")
	}
	if err := o.SetLeafKeyRSABits("test", "4096"); err != nil {
		t.Fatal(err)
	}
}

func TestSetLeafKeyRejectsMissingFile(t *testing.T) {
	o := New(nil)
	if err := o.SetLeafKey("test", "/nonexistent/leaf.key"); err == nil {
		t.Fatal("expected error for missing LeafKey file")
	}
	if o.DefaultLeafKey != nil {
		t.Error("expected DefaultLeafKey to remain unset on error")
	}
}

func TestAddDivertUserEnforcesCap(t *testing.T) {
	o := New(nil)
	for i := 0; i < MaxUsersPerDirective; i++ {
		if err := o.AddDivertUser("test", "user"); err != nil {
			t.Fatalf("unexpected error at entry %d: %v", i, err)
		}
	}
	if err := o.AddDivertUser("test", "overflow"); err == nil {
		t.Fatal("expected error beyond the cap")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	o := New(nil)
	_ = o.AddDivertUser("test", "alice")
	_ = o.Define("$m", []string{"a", "b"})

	clone := o.Clone()
	_ = clone.AddDivertUser("test", "bob")
	_ = clone.Define("$n", []string{"c"})

	if o.DivertUsers.Len() != 1 {
		t.Errorf("expected original DivertUsers untouched, got %d entries", o.DivertUsers.Len())
	}
	if clone.DivertUsers.Len() != 2 {
		t.Errorf("expected clone to have 2 entries, got %d", clone.DivertUsers.Len())
	}
	if _, ok := o.Macros.Lookup("$n"); ok {
		t.Error("expected original macro table untouched by clone's Define")
	}
}

func TestCloneKeepsNilCertHandleNil(t *testing.T) {
	o := New(nil)
	o.CACert = nil // no handle loaded in this unit test; Retain must be nil-safe
	clone := o.Clone()
	if clone.CACert != nil {
		t.Error("expected nil handle to clone as nil")
	}
}

func TestDivertDisambiguationAcceptsOnlyYesNo(t *testing.T) {
	o := New(nil)
	if err := o.SetDivert("test", "maybe"); err == nil {
		t.Fatal("expected error: Divert setter only accepts yes/no")
	}
	if err := o.SetDivert("test", "no"); err != nil {
		t.Fatal(err)
	}
	if o.Divert {
		t.Error("expected Divert=false after SetDivert(no)")
	}
}
