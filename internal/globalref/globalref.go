// Package globalref breaks the import cycle between internal/options
// and internal/globalstate. The per-listener Options' reference back
// to the owning Global is modeled as a non-owning back-reference, not
// shared ownership; Handle is the narrow interface Options needs from
// Global, implemented by *globalstate.Global.
package globalref

// Handle exposes a read-only view of a few Global fields. Options
// holds it as its Global back-reference; the setters in
// internal/options do not read it.
type Handle interface {
	// ConfigPath returns the path of the top-level config file.
	ConfigPath() string
	// LeafCertDir returns the configured directory for generated leaf
	// certificates.
	LeafCertDir() string
	// DefaultLeafCert returns the path of the fallback leaf certificate
	// used when forging fails or is disabled.
	DefaultLeafCert() string
}
