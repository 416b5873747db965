// Package sitematch normalizes the target-site tokens filter rules use,
// feeding the exact/substring tries the filter compiler builds. It
// adapts an authority-normalization idiom used elsewhere for identity
// comparison (host:port equivalence) into site-token classification for
// dstip/sni/cn/host/uri matching.
package sitematch

import (
	"strings"

	"golang.org/x/net/idna"
)

// AllSites is the sentinel substring entry representing a bare "*"
// match; it must sort last within any substring list.
const AllSites = ""

// Site is a normalized target-site token ready for trie insertion.
type Site struct {
	Token     string // the stored value; "" for AllSites
	Substring bool   // true for prefix/substring entries
}

// Normalize classifies a raw site token:
//   - the bare token "*" becomes the AllSites sentinel (substring=true,
//     token="")
//   - a token ending in "*" has the asterisk stripped and is marked
//     substring
//   - any other token is stored as-is and marked exact
//
// IDN hostnames are converted to their ASCII (Punycode) form before
// classification so that "café.example" and "xn--caf-dma.example"
// collapse to the same trie entry; tokens that are not valid hostnames
// (IPs, URI paths) pass through idna unchanged.
func Normalize(raw string) Site {
	if raw == "*" {
		return Site{Token: AllSites, Substring: true}
	}
	substring := strings.HasSuffix(raw, "*")
	token := raw
	if substring {
		token = strings.TrimSuffix(raw, "*")
	}
	token = normalizeHost(token)
	return Site{Token: token, Substring: substring}
}

// normalizeHost best-effort lowercases and Punycode-encodes a hostname
// component. Inputs that are not hostnames (contain ':' for IPv6/ports,
// '/' for URI paths) are returned unchanged aside from lowercasing.
func normalizeHost(s string) string {
	if s == "" {
		return s
	}
	if strings.ContainsAny(s, ":/") {
		return strings.ToLower(s)
	}
	ascii, err := idna.Lookup.ToASCII(s)
	if err != nil {
		return strings.ToLower(s)
	}
	return ascii
}

// Less orders two substring-bucket entries so that AllSites sorts last.
// Entries that are otherwise equal preserve declaration order at the
// call site (Less only establishes the AllSites-last rule).
func Less(a, b Site) bool {
	if a.Token == AllSites && b.Token != AllSites {
		return false
	}
	if b.Token == AllSites && a.Token != AllSites {
		return true
	}
	return false
}
