// Package dnsresolve resolves the destination address for a listener
// running in SNI-DNS mode: the proxy looks up the SNI hostname itself
// rather than trusting a NAT table entry or an explicit target.
package dnsresolve

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"
)

// Resolver looks up the IPv4 address a hostname should proxy to.
type Resolver interface {
	Resolve(ctx context.Context, host string) (net.IP, error)
}

// Client queries a recursive resolver over UDP for the A record of a
// hostname, used to turn a TLS ClientHello's SNI name into a
// destination address when a listener has no NAT engine or explicit
// target configured.
type Client struct {
	Server  string // "ip:port", e.g. "127.0.0.1:53"
	Timeout int    // seconds; zero uses the miekg/dns client default
}

// NewClient returns a Client that queries server for A records.
func NewClient(server string) *Client {
	return &Client{Server: server}
}

// Resolve issues a single A-record query and returns the first answer.
func (c *Client) Resolve(ctx context.Context, host string) (net.IP, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(host), dns.TypeA)
	m.RecursionDesired = true

	cl := new(dns.Client)
	if c.Timeout > 0 {
		cl.Timeout = secondsToDuration(c.Timeout)
	}

	in, _, err := cl.ExchangeContext(ctx, m, c.Server)
	if err != nil {
		return nil, fmt.Errorf("dnsresolve: query %q: %w", host, err)
	}
	for _, rr := range in.Answer {
		if a, ok := rr.(*dns.A); ok {
			return a.A, nil
		}
	}
	return nil, fmt.Errorf("dnsresolve: no A record for %q", host)
}

func secondsToDuration(s int) (d time.Duration) {
	return time.Duration(s) * time.Second
}
