// Package options implements the per-scope policy container: the
// typed value fields every global, listener, and filter-rule scope
// shares, their validating setters, and deep-clone semantics.
package options

import (
	"fmt"

	"github.com/MahdiBaghbani/sslguard/internal/certstore"
	"github.com/MahdiBaghbani/sslguard/internal/filterrule"
	"github.com/MahdiBaghbani/sslguard/internal/filtercompile"
	"github.com/MahdiBaghbani/sslguard/internal/globalref"
	"github.com/MahdiBaghbani/sslguard/internal/macro"
)

// Options aggregates the tunable policy for one scope: the top-level
// global scope, a per-listener clone of it, or a per-filter-rule delta
// of a curated subset. Every field here is part of the clone contract
// in Clone.
type Options struct {
	// TLS/SSL policy.
	ForceSSLProto   SSLProto
	HasForceProto   bool
	DisableSSLProto map[SSLProto]bool
	EnableSSLProto  map[SSLProto]bool
	MinSSLProto     SSLProto
	MaxSSLProto     SSLProto
	SSLCompression  bool
	Ciphers         string
	CipherSuites    string
	VerifyPeer      bool
	AllowWrongHost  bool
	DenyOCSP        bool
	ECDHCurve       string

	// Certificate material. Handles are shared by reference count on
	// Clone rather than re-parsed.
	CACert         *certstore.Handle
	CAKey          *certstore.Handle
	CAChain        *certstore.Handle
	ClientCert     *certstore.Handle
	ClientKey      *certstore.Handle
	DHParams       *certstore.Handle
	DefaultLeafKey *certstore.Handle

	LeafKeyRSABits   int
	LeafCRLURL       string
	LeafCertDir      string
	DefaultLeafCert  string
	WriteGenCertsDir string
	WriteAllCertsDir string

	// Application behavior.
	Passthrough              bool
	RemoveHTTPAcceptEncoding bool
	RemoveHTTPReferer        bool
	MaxHTTPHeaderSize        int
	ValidateProto            bool
	ConnIdleTimeout          int

	// User authentication.
	UserAuth     bool
	UserAuthURL  string
	UserTimeout  int
	DivertUsers  *UserList
	PassUsers    *UserList

	// Operation mode.
	Divert bool

	// References. Rules/Macros/Compiled are owned by this Options;
	// Global is a non-owning back-reference (see internal/globalref).
	Global   globalref.Handle
	Macros   *macro.Table
	Rules    []*filterrule.Rule
	Compiled *filtercompile.Filter
}

// New returns an Options populated with the defaults every scope
// starts from.
func New(global globalref.Handle) *Options {
	return &Options{
		DisableSSLProto:          make(map[SSLProto]bool),
		EnableSSLProto:           make(map[SSLProto]bool),
		MinSSLProto:              DefaultMinSSLProto,
		MaxSSLProto:              HighestSSLProto,
		SSLCompression:           true,
		VerifyPeer:               true,
		RemoveHTTPReferer:        true,
		UserTimeout:              300,
		MaxHTTPHeaderSize:        8192,
		ValidateProto:            true,
		Divert:                   true,
		DivertUsers:              &UserList{},
		PassUsers:                &UserList{},
		Macros:                   macro.New(),
		Global:                   global,
	}
}

// SetForceSSLProto implements the ForceSSLProto directive.
func (o *Options) SetForceSSLProto(argv0, value string) error {
	p, err := ParseSSLProto(value)
	if err != nil {
		return fmt.Errorf("%s: ForceSSLProto: %w", argv0, err)
	}
	o.ForceSSLProto = p
	o.HasForceProto = true
	return nil
}

// SetDisableSSLProto implements the DisableSSLProto directive.
func (o *Options) SetDisableSSLProto(argv0, value string) error {
	p, err := ParseSSLProto(value)
	if err != nil {
		return fmt.Errorf("%s: DisableSSLProto: %w", argv0, err)
	}
	o.DisableSSLProto[p] = true
	return nil
}

// SetEnableSSLProto implements the EnableSSLProto directive, clearing
// any earlier DisableSSLProto for the same version.
func (o *Options) SetEnableSSLProto(argv0, value string) error {
	p, err := ParseSSLProto(value)
	if err != nil {
		return fmt.Errorf("%s: EnableSSLProto: %w", argv0, err)
	}
	o.EnableSSLProto[p] = true
	delete(o.DisableSSLProto, p)
	return nil
}

// SetMinSSLProto implements the MinSSLProto directive.
func (o *Options) SetMinSSLProto(argv0, value string) error {
	p, err := ParseSSLProto(value)
	if err != nil {
		return fmt.Errorf("%s: MinSSLProto: %w", argv0, err)
	}
	if p.rank() > o.MaxSSLProto.rank() {
		return fmt.Errorf("%s: MinSSLProto %q is higher than MaxSSLProto %q", argv0, value, o.MaxSSLProto)
	}
	o.MinSSLProto = p
	return nil
}

// SetMaxSSLProto implements the MaxSSLProto directive.
func (o *Options) SetMaxSSLProto(argv0, value string) error {
	p, err := ParseSSLProto(value)
	if err != nil {
		return fmt.Errorf("%s: MaxSSLProto: %w", argv0, err)
	}
	if p.rank() < o.MinSSLProto.rank() {
		return fmt.Errorf("%s: MaxSSLProto %q is lower than MinSSLProto %q", argv0, value, o.MinSSLProto)
	}
	o.MaxSSLProto = p
	return nil
}

// SetSSLCompression implements the SSLCompression directive.
func (o *Options) SetSSLCompression(argv0, value string) error {
	b, err := ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s: SSLCompression: %w", argv0, err)
	}
	o.SSLCompression = b
	return nil
}

// SetVerifyPeer implements the VerifyPeer directive.
func (o *Options) SetVerifyPeer(argv0, value string) error {
	b, err := ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s: VerifyPeer: %w", argv0, err)
	}
	o.VerifyPeer = b
	return nil
}

// SetAllowWrongHost implements the AllowWrongHost directive.
func (o *Options) SetAllowWrongHost(argv0, value string) error {
	b, err := ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s: AllowWrongHost: %w", argv0, err)
	}
	o.AllowWrongHost = b
	return nil
}

// SetDenyOCSP implements the DenyOCSP directive.
func (o *Options) SetDenyOCSP(argv0, value string) error {
	b, err := ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s: DenyOCSP: %w", argv0, err)
	}
	o.DenyOCSP = b
	return nil
}

// SetPassthrough implements the Passthrough directive.
func (o *Options) SetPassthrough(argv0, value string) error {
	b, err := ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s: Passthrough: %w", argv0, err)
	}
	o.Passthrough = b
	return nil
}

// SetCiphers implements the Ciphers directive.
func (o *Options) SetCiphers(argv0, value string) error {
	if value == "" {
		return fmt.Errorf("%s: Ciphers: empty cipher string", argv0)
	}
	o.Ciphers = value
	return nil
}

// SetCipherSuites implements the CipherSuites directive.
func (o *Options) SetCipherSuites(argv0, value string) error {
	if value == "" {
		return fmt.Errorf("%s: CipherSuites: empty cipher suite string", argv0)
	}
	o.CipherSuites = value
	return nil
}

// SetECDHCurve implements the ECDHCurve directive.
func (o *Options) SetECDHCurve(argv0, value string) error {
	if !certstore.ValidECDHCurve(value) {
		return fmt.Errorf("%s: ECDHCurve: unknown curve %q (want one of %v)", argv0, value, certstore.ECDHCurves)
	}
	o.ECDHCurve = value
	return nil
}

// SetCACert loads and installs the CA certificate.
func (o *Options) SetCACert(argv0, path string) error {
	h, err := certstore.LoadCert(path)
	if err != nil {
		return fmt.Errorf("%s: CACert: %w", argv0, err)
	}
	o.CACert = h
	return nil
}

// SetCAKey loads and installs the CA private key.
func (o *Options) SetCAKey(argv0, path string) error {
	h, err := certstore.LoadKey(path)
	if err != nil {
		return fmt.Errorf("%s: CAKey: %w", argv0, err)
	}
	o.CAKey = h
	return nil
}

// SetCAChain loads and installs the intermediate certificate chain.
func (o *Options) SetCAChain(argv0, path string) error {
	h, err := certstore.LoadChain(path)
	if err != nil {
		return fmt.Errorf("%s: CAChain: %w", argv0, err)
	}
	o.CAChain = h
	return nil
}

// SetClientCert loads and installs the upstream client certificate.
func (o *Options) SetClientCert(argv0, path string) error {
	h, err := certstore.LoadCert(path)
	if err != nil {
		return fmt.Errorf("%s: ClientCert: %w", argv0, err)
	}
	o.ClientCert = h
	return nil
}

// SetClientKey loads and installs the upstream client private key.
func (o *Options) SetClientKey(argv0, path string) error {
	h, err := certstore.LoadKey(path)
	if err != nil {
		return fmt.Errorf("%s: ClientKey: %w", argv0, err)
	}
	o.ClientKey = h
	return nil
}

// SetDHGroupParams loads and installs the Diffie-Hellman group
// parameters.
func (o *Options) SetDHGroupParams(argv0, path string) error {
	h, err := certstore.LoadChain(path)
	if err != nil {
		return fmt.Errorf("%s: DHGroupParams: %w", argv0, err)
	}
	o.DHParams = h
	return nil
}

// SetLeafKeyRSABits implements the LeafKeyRSABits directive.
func (o *Options) SetLeafKeyRSABits(argv0, value string) error {
	bits, err := parseIntRange(argv0, "LeafKeyRSABits", value, 0, 1<<31-1)
	if err != nil {
		return err
	}
	if !certstore.ValidLeafKeyBits(bits) {
		return fmt.Errorf("%s: LeafKeyRSABits: %d must be one of %v", argv0, bits, certstore.LeafKeyBits)
	}
	o.LeafKeyRSABits = bits
	return nil
}

// SetLeafCRLURL implements the LeafCRLURL directive.
func (o *Options) SetLeafCRLURL(argv0, value string) error {
	o.LeafCRLURL = value
	return nil
}

// SetLeafCertDir implements the LeafCertDir directive.
func (o *Options) SetLeafCertDir(argv0, value string) error {
	o.LeafCertDir = value
	return nil
}

// SetDefaultLeafCert loads the fallback leaf certificate.
func (o *Options) SetDefaultLeafCert(argv0, path string) error {
	if _, err := certstore.LoadCert(path); err != nil {
		return fmt.Errorf("%s: DefaultLeafCert: %w", argv0, err)
	}
	o.DefaultLeafCert = path
	return nil
}

// SetLeafKey loads the private key paired with DefaultLeafCert, used
// when the fallback leaf certificate is served as-is instead of being
// forged fresh per connection.
func (o *Options) SetLeafKey(argv0, path string) error {
	h, err := certstore.LoadKey(path)
	if err != nil {
		return fmt.Errorf("%s: LeafKey: %w", argv0, err)
	}
	o.DefaultLeafKey = h
	return nil
}

// SetWriteGenCertsDir implements the WriteGenCertsDir directive.
func (o *Options) SetWriteGenCertsDir(argv0, value string) error {
	o.WriteGenCertsDir = value
	return nil
}

// SetWriteAllCertsDir implements the WriteAllCertsDir directive.
func (o *Options) SetWriteAllCertsDir(argv0, value string) error {
	o.WriteAllCertsDir = value
	return nil
}

// SetRemoveHTTPAcceptEncoding implements the RemoveHTTPAcceptEncoding
// directive.
func (o *Options) SetRemoveHTTPAcceptEncoding(argv0, value string) error {
	b, err := ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s: RemoveHTTPAcceptEncoding: %w", argv0, err)
	}
	o.RemoveHTTPAcceptEncoding = b
	return nil
}

// SetRemoveHTTPReferer implements the RemoveHTTPReferer directive.
func (o *Options) SetRemoveHTTPReferer(argv0, value string) error {
	b, err := ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s: RemoveHTTPReferer: %w", argv0, err)
	}
	o.RemoveHTTPReferer = b
	return nil
}

// SetMaxHTTPHeaderSize implements the MaxHTTPHeaderSize directive.
func (o *Options) SetMaxHTTPHeaderSize(argv0, value string) error {
	n, err := parseIntRange(argv0, "MaxHTTPHeaderSize", value, 1024, 65536)
	if err != nil {
		return err
	}
	o.MaxHTTPHeaderSize = n
	return nil
}

// SetValidateProto implements the ValidateProto directive.
func (o *Options) SetValidateProto(argv0, value string) error {
	b, err := ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s: ValidateProto: %w", argv0, err)
	}
	o.ValidateProto = b
	return nil
}

// SetConnIdleTimeout implements the ConnIdleTimeout directive.
func (o *Options) SetConnIdleTimeout(argv0, value string) error {
	n, err := parseIntRange(argv0, "ConnIdleTimeout", value, 10, 3600)
	if err != nil {
		return err
	}
	o.ConnIdleTimeout = n
	return nil
}

// SetUserAuth implements the UserAuth directive.
func (o *Options) SetUserAuth(argv0, value string) error {
	b, err := ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s: UserAuth: %w", argv0, err)
	}
	o.UserAuth = b
	return nil
}

// SetUserAuthURL implements the UserAuthURL directive.
func (o *Options) SetUserAuthURL(argv0, value string) error {
	o.UserAuthURL = value
	return nil
}

// SetUserTimeout implements the UserTimeout directive.
func (o *Options) SetUserTimeout(argv0, value string) error {
	n, err := parseIntRange(argv0, "UserTimeout", value, 0, 86400)
	if err != nil {
		return err
	}
	o.UserTimeout = n
	return nil
}

// AddDivertUser implements one value of the DivertUsers directive.
func (o *Options) AddDivertUser(argv0, username string) error {
	if err := o.DivertUsers.Append(username); err != nil {
		return fmt.Errorf("%s: DivertUsers: %w", argv0, err)
	}
	return nil
}

// AddPassUser implements one value of the PassUsers directive.
func (o *Options) AddPassUser(argv0, username string) error {
	if err := o.PassUsers.Append(username); err != nil {
		return fmt.Errorf("%s: PassUsers: %w", argv0, err)
	}
	return nil
}

// SetDivert implements the listener-scope Divert toggle. Per the
// disambiguation rule, this setter only handles the yes/no form; a
// non-boolean value is a filter rule and is routed there instead by
// the dispatcher.
func (o *Options) SetDivert(argv0, value string) error {
	b, err := ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s: Divert: %w", argv0, err)
	}
	o.Divert = b
	return nil
}

// Define installs a macro into this scope's macro table.
func (o *Options) Define(name string, values []string) error {
	return o.Macros.Define(name, values)
}

// AddRule appends a fully parsed filter rule to this scope.
func (o *Options) AddRule(r *filterrule.Rule) {
	o.Rules = append(o.Rules, r)
}

// Compile builds the compiled filter from the current rule list. It
// must be called once, after parsing completes.
func (o *Options) Compile() {
	o.Compiled = filtercompile.Compile(o.Rules)
}

func parseIntRange(argv0, field, value string, lo, hi int) (int, error) {
	var n int
	if _, err := fmt.Sscanf(value, "%d", &n); err != nil {
		return 0, fmt.Errorf("%s: %s: %q is not a number", argv0, field, value)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%s: %s: %d out of range [%d, %d]", argv0, field, n, lo, hi)
	}
	return n, nil
}

// Clone deep-copies scalars and owned strings, replicates both user
// lists preserving order, deep-copies the macro table and filter-rule
// list, and shares certificate handles by incrementing their
// reference counts. The compiled filter is not copied: a clone starts
// with its own copy of the rule list and must be recompiled.
func (o *Options) Clone() *Options {
	cp := *o
	cp.DisableSSLProto = cloneProtoSet(o.DisableSSLProto)
	cp.EnableSSLProto = cloneProtoSet(o.EnableSSLProto)
	cp.DivertUsers = o.DivertUsers.Clone()
	cp.PassUsers = o.PassUsers.Clone()
	cp.Macros = o.Macros.Clone()

	cp.Rules = make([]*filterrule.Rule, len(o.Rules))
	for i, r := range o.Rules {
		rc := *r
		cp.Rules[i] = &rc
	}
	cp.Compiled = nil

	cp.CACert = o.CACert.Retain()
	cp.CAKey = o.CAKey.Retain()
	cp.CAChain = o.CAChain.Retain()
	cp.ClientCert = o.ClientCert.Retain()
	cp.ClientKey = o.ClientKey.Retain()
	cp.DHParams = o.DHParams.Retain()
	cp.DefaultLeafKey = o.DefaultLeafKey.Retain()

	return &cp
}

func cloneProtoSet(m map[SSLProto]bool) map[SSLProto]bool {
	out := make(map[SSLProto]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
