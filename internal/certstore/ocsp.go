package certstore

import (
	"fmt"

	"golang.org/x/crypto/ocsp"
)

// OCSPStatus parses a raw OCSP response (as would be stapled by the TLS
// engine collaborator) against issuer and returns the parsed response;
// DenyOnOCSP turns that response into the DenyOCSP decision. It never
// performs the OCSP network round trip itself; that lives entirely
// outside this package.
func OCSPStatus(raw []byte, issuer *Handle) (*ocsp.Response, error) {
	var issuerCert = issuer.Certificate()
	resp, err := ocsp.ParseResponse(raw, issuerCert)
	if err != nil {
		return nil, fmt.Errorf("certstore: parse OCSP response: %w", err)
	}
	return resp, nil
}

// DenyOnOCSP reports whether DenyOCSP=yes should close the connection
// given a parsed OCSP response.
func DenyOnOCSP(resp *ocsp.Response) bool {
	if resp == nil {
		return false
	}
	return resp.Status != ocsp.Good
}
