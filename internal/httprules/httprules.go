// Package httprules applies a listener's HTTP header policy to a
// request: stripping headers the filter configuration asks to remove
// and rejecting headers that don't validate as well-formed HTTP.
package httprules

import (
	"fmt"
	"net/http"

	"golang.org/x/net/http/httpguts"
)

// Policy mirrors the subset of Options that governs header handling.
type Policy struct {
	RemoveAcceptEncoding bool
	RemoveReferer        bool
	MaxHeaderSize        int
}

// Apply strips headers per policy and validates the remainder.
// Returns an error if validation fails or the header block exceeds
// MaxHeaderSize.
func Apply(h http.Header, policy Policy) error {
	if policy.RemoveAcceptEncoding {
		h.Del("Accept-Encoding")
	}
	if policy.RemoveReferer {
		h.Del("Referer")
	}

	size := 0
	for name, values := range h {
		if !httpguts.ValidHeaderFieldName(name) {
			return fmt.Errorf("httprules: invalid header field name %q", name)
		}
		size += len(name)
		for _, v := range values {
			if !httpguts.ValidHeaderFieldValue(v) {
				return fmt.Errorf("httprules: invalid value for header %q", name)
			}
			size += len(v)
		}
	}
	if policy.MaxHeaderSize > 0 && size > policy.MaxHeaderSize {
		return fmt.Errorf("httprules: header block size %d exceeds limit %d", size, policy.MaxHeaderSize)
	}
	return nil
}
