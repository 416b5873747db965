package listener

import (
	"fmt"

	"github.com/MahdiBaghbani/sslguard/internal/options"
)

// BlockBuilder accumulates fields for the block form of a listener
// declaration:
//
//	ProxySpec {
//	    Proto <proto>
//	    Addr <listen-addr>
//	    Port <listen-port>
//	    TargetAddr <target-addr>
//	    TargetPort <target-port>
//	    ...
//	}
//
// Fields are set one directive per call, same as the global and
// Options dispatch tables, so confparse can drive either form through
// one mechanism. Close validates ordering and required fields.
type BlockBuilder struct {
	proto string
	fam   Family
	haveProto bool

	addr     string
	haveAddr bool
	port     int
	havePort bool

	targetAddr     string
	haveTargetAddr bool
	targetPort     int
	haveTargetPort bool

	divertPort int
	haveDivert bool
	divertAddr string
	returnAddr string

	natEngine string
	sniPort   int
	haveSNI   bool
}

// NewBlockBuilder starts a block-form listener declaration.
func NewBlockBuilder() *BlockBuilder { return &BlockBuilder{} }

// SetProto implements the Proto directive.
func (b *BlockBuilder) SetProto(argv0, value string) error {
	f, err := validateProto(value)
	if err != nil {
		return fmt.Errorf("%s: %w", argv0, err)
	}
	b.proto = value
	b.fam = f
	b.haveProto = true
	return nil
}

// SetAddr implements the Addr directive. Addr must be set before Port.
func (b *BlockBuilder) SetAddr(argv0, value string) error {
	b.addr = value
	b.haveAddr = true
	return nil
}

// SetPort implements the Port directive. Rejected if Addr has not been
// set yet, since a bare port number is meaningless without its address.
func (b *BlockBuilder) SetPort(argv0, value string) error {
	if !b.haveAddr {
		return fmt.Errorf("%s: Port given before Addr", argv0)
	}
	n, err := parsePort(argv0, value)
	if err != nil {
		return err
	}
	b.port = n
	b.havePort = true
	return nil
}

// SetTargetAddr implements the TargetAddr directive. Must precede
// TargetPort for the same reason Addr must precede Port.
func (b *BlockBuilder) SetTargetAddr(argv0, value string) error {
	b.targetAddr = value
	b.haveTargetAddr = true
	return nil
}

// SetTargetPort implements the TargetPort directive.
func (b *BlockBuilder) SetTargetPort(argv0, value string) error {
	if !b.haveTargetAddr {
		return fmt.Errorf("%s: TargetPort given before TargetAddr", argv0)
	}
	n, err := parsePort(argv0, value)
	if err != nil {
		return err
	}
	b.targetPort = n
	b.haveTargetPort = true
	return nil
}

// SetDivertPort implements the DivertPort directive (the block-form
// equivalent of "up:").
func (b *BlockBuilder) SetDivertPort(argv0, value string) error {
	n, err := parsePort(argv0, value)
	if err != nil {
		return err
	}
	b.divertPort = n
	b.haveDivert = true
	return nil
}

// SetDivertAddr implements the DivertAddr directive ("ua:").
func (b *BlockBuilder) SetDivertAddr(argv0, value string) error {
	b.divertAddr = value
	return nil
}

// SetReturnAddr implements the ReturnAddr directive ("ra:").
func (b *BlockBuilder) SetReturnAddr(argv0, value string) error {
	b.returnAddr = value
	return nil
}

// SetNATEngine implements the NATEngine directive.
func (b *BlockBuilder) SetNATEngine(argv0, value string) error {
	if !isNATEngine(value) {
		return fmt.Errorf("%s: NATEngine: unknown engine %q", argv0, value)
	}
	b.natEngine = value
	return nil
}

// SetSNIPort implements the SNIPort directive.
func (b *BlockBuilder) SetSNIPort(argv0, value string) error {
	if !b.haveProto || !b.fam.SSL {
		return fmt.Errorf("%s: SNIPort requires an ssl/https/autossl Proto", argv0)
	}
	n, err := parsePort(argv0, value)
	if err != nil {
		return err
	}
	b.sniPort = n
	b.haveSNI = true
	return nil
}

// Close validates the accumulated fields and produces the finished
// Spec, bound to a clone of global's Options.
func (b *BlockBuilder) Close(global *options.Options) (*Spec, error) {
	if !b.haveProto {
		return nil, fmt.Errorf("listener block: missing Proto")
	}
	if !b.haveAddr || !b.havePort {
		return nil, fmt.Errorf("listener block: missing Addr/Port")
	}
	targets := 0
	if b.haveTargetAddr {
		if !b.haveTargetPort {
			return nil, fmt.Errorf("listener block: TargetAddr given without TargetPort")
		}
		targets++
	}
	if b.natEngine != "" {
		targets++
	}
	if b.haveSNI {
		targets++
	}
	if targets > 1 {
		return nil, fmt.Errorf("listener block: target address, NAT engine, and SNIPort are mutually exclusive")
	}

	s := &Spec{
		Proto:      b.proto,
		Family:     b.fam,
		Addr:       options.AddrPort{Addr: b.addr, Port: b.port},
		HasDivert:  b.haveDivert,
		DivertPort: b.divertPort,
		DivertAddr: b.divertAddr,
		ReturnAddr: b.returnAddr,
		NATEngine:  b.natEngine,
		SNIPort:    b.sniPort,
		HasSNI:     b.haveSNI,
	}
	if b.haveTargetAddr {
		s.TargetAddr = options.AddrPort{Addr: b.targetAddr, Port: b.targetPort}
		s.HasTarget = true
	}
	if global != nil {
		s.Options = global.Clone()
	}
	return s, nil
}

func parsePort(argv0, value string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(value, "%d", &n); err != nil {
		return 0, fmt.Errorf("%s: invalid port %q", argv0, value)
	}
	if n < 1 || n > 65535 {
		return 0, fmt.Errorf("%s: port %d out of range", argv0, n)
	}
	return n, nil
}
