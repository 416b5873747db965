package options

import "fmt"

// SSLProto enumerates the protocol version tokens ForceSSLProto,
// DisableSSLProto, MinSSLProto and MaxSSLProto accept.
type SSLProto string

const (
	SSLProtoSSL2  SSLProto = "ssl2"
	SSLProtoSSL3  SSLProto = "ssl3"
	SSLProtoTLS10 SSLProto = "tls10"
	SSLProtoTLS1  SSLProto = "tls1"
	SSLProtoTLS11 SSLProto = "tls11"
	SSLProtoTLS12 SSLProto = "tls12"
	SSLProtoTLS13 SSLProto = "tls13"
)

// sslProtoOrder lists every accepted token in ascending strength, used
// to validate Min/Max pairs and to resolve "highest supported" for the
// default Max.
var sslProtoOrder = []SSLProto{
	SSLProtoSSL2, SSLProtoSSL3, SSLProtoTLS10, SSLProtoTLS1,
	SSLProtoTLS11, SSLProtoTLS12, SSLProtoTLS13,
}

// ParseSSLProto validates s against the accepted enumeration.
func ParseSSLProto(s string) (SSLProto, error) {
	p := SSLProto(s)
	for _, v := range sslProtoOrder {
		if v == p {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid SSL/TLS protocol token %q: must be one of ssl2, ssl3, tls10, tls1, tls11, tls12, tls13", s)
}

// rank returns p's position in sslProtoOrder, used for Min <= Max checks.
func (p SSLProto) rank() int {
	for i, v := range sslProtoOrder {
		if v == p {
			return i
		}
	}
	return -1
}

// HighestSSLProto is the default Max value: "the highest supported TLS
// version.
const HighestSSLProto = SSLProtoTLS13

// DefaultMinSSLProto is the default Min value.
const DefaultMinSSLProto = SSLProtoTLS10

// ParseBool parses the "yes"/"no" tokens every boolean setter accepts;
// boolean setters accept only these two tokens.
func ParseBool(s string) (bool, error) {
	switch s {
	case "yes":
		return true, nil
	case "no":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean value %q: must be yes or no", s)
	}
}

// FormatBool is the formatter-side inverse of ParseBool, used by the
// textual dumper for round-tripping.
func FormatBool(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// AddrPort is a bound address/port pair. Port 0 means "unset".
type AddrPort struct {
	Addr string
	Port int
}

func (a AddrPort) String() string {
	if a.Addr == "" && a.Port == 0 {
		return ""
	}
	return fmt.Sprintf("%s %d", a.Addr, a.Port)
}

// IsZero reports whether the pair is unset.
func (a AddrPort) IsZero() bool { return a.Addr == "" && a.Port == 0 }
