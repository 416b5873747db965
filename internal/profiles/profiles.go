// Package profiles loads named cipher/protocol bundles and looks them
// up by name, with or without a leading '$' ("$modern"). The Ciphers
// directive setter in internal/options does not consult this table; it
// stores its value as a literal cipher string.
package profiles

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Profile is one named bundle of TLS tuning values.
type Profile struct {
	Ciphers      string `toml:"ciphers"`
	CipherSuites string `toml:"cipher_suites"`
	MinSSLProto  string `toml:"min_ssl_proto"`
	MaxSSLProto  string `toml:"max_ssl_proto"`
}

// builtin mirrors the small set of profiles shipped with the binary.
// Custom profiles loaded from a TOML file may add to or override
// these by name.
var builtin = map[string]Profile{
	"modern": {
		Ciphers:     "",
		MinSSLProto: "tls12",
		MaxSSLProto: "tls13",
	},
	"compatible": {
		Ciphers:     "HIGH:!aNULL:!MD5",
		MinSSLProto: "tls10",
		MaxSSLProto: "tls13",
	},
}

// Table is a loaded set of named profiles, builtin entries plus any
// overrides/additions from a TOML file.
type Table struct {
	profiles map[string]Profile
}

// Load builds a Table starting from the builtin profiles and
// overlaying entries from path, if non-empty.
func Load(path string) (*Table, error) {
	t := &Table{profiles: make(map[string]Profile, len(builtin))}
	for name, p := range builtin {
		t.profiles[name] = p
	}
	if path == "" {
		return t, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profiles: read %q: %w", path, err)
	}
	var file struct {
		Profiles map[string]Profile `toml:"profiles"`
	}
	if _, err := toml.Decode(string(data), &file); err != nil {
		return nil, fmt.Errorf("profiles: parse %q: %w", path, err)
	}
	for name, p := range file.Profiles {
		t.profiles[name] = p
	}
	return t, nil
}

// Lookup returns the named profile, stripped of its leading '$' if
// present.
func (t *Table) Lookup(name string) (Profile, bool) {
	if len(name) > 0 && name[0] == '$' {
		name = name[1:]
	}
	p, ok := t.profiles[name]
	return p, ok
}
