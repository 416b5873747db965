package confparse

import (
	"github.com/MahdiBaghbani/sslguard/internal/globalstate"
	"github.com/MahdiBaghbani/sslguard/internal/options"
)

// Setter applies one directive's value to whatever scope it is bound
// to. argv0 identifies the directive name for error messages.
type Setter func(argv0, value string) error

// OptionsDispatch builds the name → Setter table for directives that
// apply to a single Options scope (global or a per-listener clone).
// This is the single source of truth the lexer/parser layer defers
// to: a directive name not present here is either global-only (see
// GlobalDispatch) or unrecognized.
func OptionsDispatch(o *options.Options) map[string]Setter {
	return map[string]Setter{
		"ForceSSLProto":            o.SetForceSSLProto,
		"DisableSSLProto":          o.SetDisableSSLProto,
		"EnableSSLProto":           o.SetEnableSSLProto,
		"MinSSLProto":              o.SetMinSSLProto,
		"MaxSSLProto":              o.SetMaxSSLProto,
		"SSLCompression":           o.SetSSLCompression,
		"Ciphers":                  o.SetCiphers,
		"CipherSuites":             o.SetCipherSuites,
		"VerifyPeer":               o.SetVerifyPeer,
		"AllowWrongHost":           o.SetAllowWrongHost,
		"DenyOCSP":                 o.SetDenyOCSP,
		"ECDHCurve":                o.SetECDHCurve,
		"CACert":                   o.SetCACert,
		"CAKey":                    o.SetCAKey,
		"CAChain":                  o.SetCAChain,
		"ClientCert":               o.SetClientCert,
		"ClientKey":                o.SetClientKey,
		"DHGroupParams":            o.SetDHGroupParams,
		"LeafKey":                  o.SetLeafKey,
		"LeafKeyRSABits":           o.SetLeafKeyRSABits,
		"LeafCRLURL":               o.SetLeafCRLURL,
		"LeafCertDir":              o.SetLeafCertDir,
		"DefaultLeafCert":          o.SetDefaultLeafCert,
		"WriteGenCertsDir":         o.SetWriteGenCertsDir,
		"WriteAllCertsDir":         o.SetWriteAllCertsDir,
		"Passthrough":              o.SetPassthrough,
		"RemoveHTTPAcceptEncoding": o.SetRemoveHTTPAcceptEncoding,
		"RemoveHTTPReferer":        o.SetRemoveHTTPReferer,
		"MaxHTTPHeaderSize":        o.SetMaxHTTPHeaderSize,
		"ValidateProto":            o.SetValidateProto,
		"ConnIdleTimeout":          o.SetConnIdleTimeout,
		"UserAuth":                 o.SetUserAuth,
		"UserAuthURL":              o.SetUserAuthURL,
		"UserTimeout":              o.SetUserTimeout,
		"DivertUsers":              o.AddDivertUser,
		"PassUsers":                o.AddPassUser,
		"Divert":                   o.SetDivert,
	}
}

// GlobalDispatch builds the name → Setter table for directives that
// only make sense once, at process scope.
func GlobalDispatch(g *globalstate.Global) map[string]Setter {
	return map[string]Setter{
		"PidFile": func(_, v string) error {
			g.PidFile = v
			return nil
		},
		"ConnectLog": func(_, v string) error {
			g.ConnectLog = v
			return nil
		},
		"ContentLog": func(_, v string) error {
			g.ContentLog = v
			return nil
		},
		"ContentLogDir": func(_, v string) error {
			g.ContentLogDir = v
			return nil
		},
		"ContentLogPathSpec": func(_, v string) error {
			g.ContentLogPathSpec = v
			return nil
		},
		"MasterKeyLog": func(_, v string) error {
			g.MasterKeyLog = v
			return nil
		},
		"PcapLog": func(_, v string) error {
			g.PcapLog = v
			return nil
		},
		"PcapLogDir": func(_, v string) error {
			g.PcapLogDir = v
			return nil
		},
		"PcapLogPathSpec": func(_, v string) error {
			g.PcapLogPathSpec = v
			return nil
		},
		"MirrorIf": func(_, v string) error {
			g.MirrorIf = v
			return nil
		},
		"MirrorTarget": func(_, v string) error {
			g.MirrorTarget = v
			return nil
		},
		"User": func(_, v string) error {
			g.User = v
			return nil
		},
		"Group": func(_, v string) error {
			g.Group = v
			return nil
		},
		"Chroot": func(_, v string) error {
			g.Chroot = v
			return nil
		},
		"UserDBPath": func(_, v string) error {
			g.UserDBPath = v
			return nil
		},
		"Daemon":                 g.SetDaemon,
		"LogProcInfo":            g.SetLogProcInfo,
		"Debug":                  g.SetDebug,
		"DebugLevel":             g.SetDebugLevel,
		"ExpiredConnCheckPeriod": g.SetExpiredConnCheckPeriod,
		"StatsPeriod":            g.SetStatsPeriod,
		"OpenFilesLimit":         g.SetOpenFilesLimit,
		"LogStats":               g.SetLogStats,
		"LeafCertDir":            g.SetLeafCertDir,
		"DefaultLeafCert":        g.SetDefaultLeafCert,
	}
}
