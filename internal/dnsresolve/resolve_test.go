package dnsresolve

import (
	"context"
	"net"
	"testing"
)

type fakeResolver struct {
	ip  net.IP
	err error
}

func (f *fakeResolver) Resolve(_ context.Context, _ string) (net.IP, error) {
	return f.ip, f.err
}

func TestResolverInterfaceSatisfiedByClient(t *testing.T) {
	var _ Resolver = (*Client)(nil)
}

func TestFakeResolverReturnsConfiguredIP(t *testing.T) {
	r := &fakeResolver{ip: net.ParseIP("10.0.0.1")}
	ip, err := r.Resolve(context.Background(), "example.com")
	if err != nil {
		t.Fatal(err)
	}
	if !ip.Equal(net.ParseIP("10.0.0.1")) {
		t.Errorf("got %v", ip)
	}
}
