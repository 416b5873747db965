// Package listener implements the listener declaration: the spec type
// bound to one listening endpoint, and the one-line and block-form
// parsers that build it.
package listener

import (
	"fmt"

	"github.com/MahdiBaghbani/sslguard/internal/options"
)

// Family is the set of protocol-family flags a listener declares.
type Family struct {
	SSL     bool
	HTTP    bool
	Upgrade bool
	POP3    bool
	SMTP    bool
}

// protoFamily maps each accepted protocol keyword onto its Family.
var protoFamily = map[string]Family{
	"tcp":     {},
	"ssl":     {SSL: true},
	"http":    {HTTP: true},
	"https":   {SSL: true, HTTP: true},
	"autossl": {SSL: true, Upgrade: true},
	"pop3":    {POP3: true},
	"pop3s":   {POP3: true, SSL: true},
	"smtp":    {SMTP: true},
	"smtps":   {SMTP: true, SSL: true},
}

// NATEngines lists the recognized platform NAT engine names a listener
// may resolve its target through instead of an explicit address.
var NATEngines = []string{"pf", "ipfw", "netfilter", "tproxy"}

func isNATEngine(name string) bool {
	for _, e := range NATEngines {
		if e == name {
			return true
		}
	}
	return false
}

// Spec describes one listening endpoint: its address, upstream divert
// and return addresses, target resolution policy, and the Options it
// owns. Target resolution is exactly one of: an explicit address+port,
// a named NAT engine, or an SNI-derived DNS destination port.
type Spec struct {
	Proto  string
	Family Family

	Addr options.AddrPort

	HasDivert  bool
	DivertPort int
	DivertAddr string // "ua:" — empty when absent
	ReturnAddr string // "ra:"

	TargetAddr options.AddrPort
	HasTarget  bool

	NATEngine string

	SNIPort int
	HasSNI  bool

	Options *options.Options
	Next    *Spec
}

// EffectiveDivert resolves whether this listener actually diverts
// connections to a userspace proxy process: the command-line split
// flag forces false; otherwise the absence of an upstream divert
// address forces false; otherwise the listener's own Divert setting
// wins.
func (s *Spec) EffectiveDivert(splitFlag bool) bool {
	if splitFlag {
		return false
	}
	if !s.HasDivert {
		return false
	}
	if s.Options == nil {
		return true
	}
	return s.Options.Divert
}

func validateProto(proto string) (Family, error) {
	f, ok := protoFamily[proto]
	if !ok {
		return Family{}, fmt.Errorf("unknown protocol keyword %q", proto)
	}
	return f, nil
}
