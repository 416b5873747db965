package listener

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/MahdiBaghbani/sslguard/internal/options"
)

// state is the one-line listener recognizer's state, a sum type
// rather than a raw integer per the automaton the recognizer walks.
type state int

const (
	stateProto state = iota
	stateListenAddr
	stateListenPort
	stateTail
	stateDivertCapture
	stateDone
)

// ParseOneLine recognizes the one-line listener grammar:
//
//	<proto> <listen-addr> <listen-port>
//	  [up:<divert-port> [ua:<divert-addr>] [ra:<return-addr>]]
//	  [<nat>|<target-addr> <target-port>|sni <port>]
func ParseOneLine(line string, global *options.Options) (*Spec, error) {
	tokens := strings.Fields(line)
	if len(tokens) < 3 {
		return nil, fmt.Errorf("listener: too few tokens in %q", line)
	}

	s := &Spec{}
	st := stateProto
	i := 0

	for st != stateDone {
		switch st {
		case stateProto:
			f, err := validateProto(tokens[i])
			if err != nil {
				return nil, fmt.Errorf("listener: %w", err)
			}
			s.Proto = tokens[i]
			s.Family = f
			i++
			st = stateListenAddr

		case stateListenAddr:
			if i >= len(tokens) {
				return nil, fmt.Errorf("listener: missing listen address")
			}
			s.Addr.Addr = tokens[i]
			i++
			st = stateListenPort

		case stateListenPort:
			if i >= len(tokens) {
				return nil, fmt.Errorf("listener: missing listen port")
			}
			port, err := strconv.Atoi(tokens[i])
			if err != nil {
				return nil, fmt.Errorf("listener: invalid listen port %q", tokens[i])
			}
			s.Addr.Port = port
			i++
			st = stateTail

		case stateTail:
			if i >= len(tokens) {
				st = stateDone
				break
			}
			switch {
			case strings.HasPrefix(tokens[i], "up:"):
				st = stateDivertCapture
			case tokens[i] == "sni":
				if !s.Family.SSL {
					return nil, fmt.Errorf("listener: 'sni' may only follow an ssl/https/autossl protocol")
				}
				i++
				if i >= len(tokens) {
					return nil, fmt.Errorf("listener: 'sni' requires a port")
				}
				port, err := strconv.Atoi(tokens[i])
				if err != nil {
					return nil, fmt.Errorf("listener: invalid sni port %q", tokens[i])
				}
				s.SNIPort = port
				s.HasSNI = true
				i++
				st = stateDone
			case isNATEngine(tokens[i]):
				s.NATEngine = tokens[i]
				i++
				st = stateDone
			default:
				if i+1 >= len(tokens) {
					return nil, fmt.Errorf("listener: dangling token %q", tokens[i])
				}
				port, err := strconv.Atoi(tokens[i+1])
				if err != nil {
					return nil, fmt.Errorf("listener: invalid target port %q", tokens[i+1])
				}
				s.TargetAddr = options.AddrPort{Addr: tokens[i], Port: port}
				s.HasTarget = true
				i += 2
				st = stateDone
			}

		case stateDivertCapture:
			portStr := strings.TrimPrefix(tokens[i], "up:")
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return nil, fmt.Errorf("listener: invalid divert port %q", portStr)
			}
			s.DivertPort = port
			s.HasDivert = true
			i++
			for i < len(tokens) && strings.HasPrefix(tokens[i], "ua:") {
				s.DivertAddr = strings.TrimPrefix(tokens[i], "ua:")
				i++
			}
			for i < len(tokens) && strings.HasPrefix(tokens[i], "ra:") {
				s.ReturnAddr = strings.TrimPrefix(tokens[i], "ra:")
				i++
			}
			st = stateTail
		}
	}

	if global != nil {
		s.Options = global.Clone()
	}
	return s, nil
}
