package listener

import "testing"

func TestParseOneLineExplicitTarget(t *testing.T) {
	s, err := ParseOneLine("https 127.0.0.1 8443 10.0.0.1 443", nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.Proto != "https" || !s.Family.SSL || !s.Family.HTTP {
		t.Fatalf("unexpected family: %+v", s.Family)
	}
	if s.Addr.Addr != "127.0.0.1" || s.Addr.Port != 8443 {
		t.Fatalf("unexpected listen addr: %+v", s.Addr)
	}
	if !s.HasTarget || s.TargetAddr.Addr != "10.0.0.1" || s.TargetAddr.Port != 443 {
		t.Fatalf("unexpected target: %+v", s.TargetAddr)
	}
	if s.HasDivert || s.HasSNI || s.NATEngine != "" {
		t.Fatalf("expected no divert/sni/nat, got %+v", s)
	}
}

func TestParseOneLineDivertWithReturnAddr(t *testing.T) {
	s, err := ParseOneLine("ssl 0.0.0.0 443 up:10000 ua:127.0.0.1 ra:127.0.0.1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !s.HasDivert || s.DivertPort != 10000 {
		t.Fatalf("expected divert port 10000, got %+v", s)
	}
	if s.DivertAddr != "127.0.0.1" {
		t.Errorf("expected divert addr 127.0.0.1, got %q", s.DivertAddr)
	}
	if s.ReturnAddr != "127.0.0.1" {
		t.Errorf("expected return addr 127.0.0.1, got %q", s.ReturnAddr)
	}
}

func TestParseOneLineNATEngine(t *testing.T) {
	s, err := ParseOneLine("ssl 0.0.0.0 443 pf", nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.NATEngine != "pf" {
		t.Errorf("expected nat engine pf, got %q", s.NATEngine)
	}
	if s.HasTarget || s.HasSNI {
		t.Errorf("expected no target/sni alongside nat engine, got %+v", s)
	}
}

func TestParseOneLineSNIRequiresSSL(t *testing.T) {
	if _, err := ParseOneLine("tcp 0.0.0.0 8080 sni 443", nil); err == nil {
		t.Fatal("expected error: sni requires an ssl-family protocol")
	}
	s, err := ParseOneLine("ssl 0.0.0.0 443 sni 443", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !s.HasSNI || s.SNIPort != 443 {
		t.Fatalf("expected sni port 443, got %+v", s)
	}
}

func TestParseOneLineUnknownProto(t *testing.T) {
	if _, err := ParseOneLine("quic 0.0.0.0 443", nil); err == nil {
		t.Fatal("expected error for unrecognized protocol keyword")
	}
}

func TestParseOneLineTooFewTokens(t *testing.T) {
	if _, err := ParseOneLine("ssl 0.0.0.0", nil); err == nil {
		t.Fatal("expected error: missing listen port")
	}
}

func TestEffectiveDivertPrecedence(t *testing.T) {
	s := &Spec{HasDivert: true}
	if s.EffectiveDivert(true) {
		t.Error("split flag must force EffectiveDivert false")
	}
	s2 := &Spec{HasDivert: false}
	if s2.EffectiveDivert(false) {
		t.Error("absent divert address must force EffectiveDivert false")
	}
	s3 := &Spec{HasDivert: true, Options: nil}
	if !s3.EffectiveDivert(false) {
		t.Error("nil Options with a divert address present should default true")
	}
}

func TestBlockBuilderOrderingRequirements(t *testing.T) {
	b := NewBlockBuilder()
	if err := b.SetPort("test", "8443"); err == nil {
		t.Fatal("expected error: Port before Addr")
	}
	if err := b.SetAddr("test", "127.0.0.1"); err != nil {
		t.Fatal(err)
	}
	if err := b.SetPort("test", "8443"); err != nil {
		t.Fatal(err)
	}
	if err := b.SetTargetPort("test", "443"); err == nil {
		t.Fatal("expected error: TargetPort before TargetAddr")
	}
}

func TestBlockBuilderRequiresProtoAddrPort(t *testing.T) {
	b := NewBlockBuilder()
	if _, err := b.Close(nil); err == nil {
		t.Fatal("expected error: missing Proto/Addr/Port")
	}
}

func TestBlockBuilderTargetMutualExclusion(t *testing.T) {
	b := NewBlockBuilder()
	if err := b.SetProto("test", "ssl"); err != nil {
		t.Fatal(err)
	}
	if err := b.SetAddr("test", "0.0.0.0"); err != nil {
		t.Fatal(err)
	}
	if err := b.SetPort("test", "443"); err != nil {
		t.Fatal(err)
	}
	if err := b.SetTargetAddr("test", "10.0.0.1"); err != nil {
		t.Fatal(err)
	}
	if err := b.SetTargetPort("test", "443"); err != nil {
		t.Fatal(err)
	}
	if err := b.SetNATEngine("test", "pf"); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Close(nil); err == nil {
		t.Fatal("expected error: target addr and nat engine are mutually exclusive")
	}
}

func TestBlockBuilderCompleteSpec(t *testing.T) {
	b := NewBlockBuilder()
	_ = b.SetProto("test", "https")
	_ = b.SetAddr("test", "0.0.0.0")
	_ = b.SetPort("test", "8443")
	_ = b.SetTargetAddr("test", "10.0.0.1")
	_ = b.SetTargetPort("test", "443")
	s, err := b.Close(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !s.HasTarget || s.TargetAddr.Port != 443 {
		t.Fatalf("unexpected spec: %+v", s)
	}
}
