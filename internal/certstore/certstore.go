// Package certstore loads and reference-counts the certificate and key
// material Options fields point at (CACert, CAKey, CAChain, ClientCert,
// ClientKey, DH params). The TLS engine and leaf-certificate forging
// math that consume these handles live outside this package.
package certstore

import (
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/go-acme/lego/v4/certcrypto"
)

// Handle is a reference-counted handle onto parsed certificate or key
// material loaded from a file. Options.Clone shares Handles across
// scopes by incrementing refs rather than re-reading or re-parsing the
// backing file.
type Handle struct {
	path string
	refs int32

	mu   sync.RWMutex
	cert *x509.Certificate
	key  crypto.PrivateKey
	pem  []byte
}

// LoadCert parses a PEM-encoded certificate file into a new Handle with
// a single reference.
func LoadCert(path string) (*Handle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("certstore: read %s: %w", path, err)
	}
	cert, err := certcrypto.ParsePEMCertificate(data)
	if err != nil {
		return nil, fmt.Errorf("certstore: parse certificate %s: %w", path, err)
	}
	return &Handle{path: path, refs: 1, cert: cert, pem: data}, nil
}

// LoadKey parses a PEM-encoded private key file into a new Handle with a
// single reference.
func LoadKey(path string) (*Handle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("certstore: read %s: %w", path, err)
	}
	key, err := certcrypto.ParsePEMPrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("certstore: parse private key %s: %w", path, err)
	}
	return &Handle{path: path, refs: 1, key: key, pem: data}, nil
}

// LoadChain parses a PEM bundle of intermediate certificates (CAChain)
// into a Handle. Only the raw PEM bytes are retained; the chain is
// handed to the TLS engine collaborator as-is.
func LoadChain(path string) (*Handle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("certstore: read %s: %w", path, err)
	}
	if block, _ := pem.Decode(data); block == nil {
		return nil, fmt.Errorf("certstore: %s contains no PEM data", path)
	}
	return &Handle{path: path, refs: 1, pem: data}, nil
}

// Retain increments the reference count and returns h. Clone
// (internal/options) calls this instead of re-parsing the file.
func (h *Handle) Retain() *Handle {
	if h == nil {
		return nil
	}
	atomic.AddInt32(&h.refs, 1)
	return h
}

// Release decrements the reference count. The backing memory is owned
// by the Go runtime (no manual free is needed); Release exists so
// callers can assert the invariant that every Retain is matched.
func (h *Handle) Release() int32 {
	if h == nil {
		return 0
	}
	return atomic.AddInt32(&h.refs, -1)
}

// Refs reports the current reference count, for tests and diagnostics.
func (h *Handle) Refs() int32 {
	if h == nil {
		return 0
	}
	return atomic.LoadInt32(&h.refs)
}

// Path returns the file path the handle was loaded from.
func (h *Handle) Path() string {
	if h == nil {
		return ""
	}
	return h.path
}

// Certificate returns the parsed certificate, or nil if this handle
// holds a key instead.
func (h *Handle) Certificate() *x509.Certificate {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cert
}

// PrivateKey returns the parsed private key, or nil if this handle
// holds a certificate instead.
func (h *Handle) PrivateKey() crypto.PrivateKey {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.key
}

// PEM returns the raw PEM bytes backing this handle.
func (h *Handle) PEM() []byte {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.pem
}
