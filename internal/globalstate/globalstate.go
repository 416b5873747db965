// Package globalstate holds the process-wide fields parsed once at
// startup: paths, log targets, certificate directories, and the head
// of the listener list, plus the top-level Options every listener
// clones from.
package globalstate

import (
	"fmt"
	"strings"

	"github.com/MahdiBaghbani/sslguard/internal/listener"
	"github.com/MahdiBaghbani/sslguard/internal/options"
)

// Global is allocated once at startup, mutated only during parsing,
// then frozen for the lifetime of the process.
type Global struct {
	ConfigFilePath string
	PidFile        string

	ConnectLog         string
	ContentLog         string
	ContentLogDir      string
	ContentLogPathSpec string
	LogProcInfo        bool
	MasterKeyLog       string
	PcapLog            string
	PcapLogDir         string
	PcapLogPathSpec    string
	MirrorIf           string
	MirrorTarget       string

	Daemon     bool
	Debug      bool
	DebugLevel string

	User   string
	Group  string
	Chroot string

	UserDBPath string

	leafCertDir     string
	defaultLeafCert string

	ExpiredConnCheckPeriod int
	LogStats               bool
	StatsPeriod            int
	OpenFilesLimit         int

	Options   *options.Options
	Listeners *listener.Spec
	lastSpec  *listener.Spec
}

// New returns a Global with its top-level Options populated with
// defaults and itself wired as that Options' back-reference.
func New() *Global {
	g := &Global{
		ExpiredConnCheckPeriod: 15,
		StatsPeriod:            1,
		OpenFilesLimit:         1024,
	}
	g.Options = options.New(g)
	return g
}

// ConfigPath implements globalref.Handle.
func (g *Global) ConfigPath() string { return g.ConfigFilePath }

// LeafCertDir implements globalref.Handle.
func (g *Global) LeafCertDir() string { return g.leafCertDir }

// DefaultLeafCert implements globalref.Handle.
func (g *Global) DefaultLeafCert() string { return g.defaultLeafCert }

// SetLeafCertDir implements the LeafCertDir directive at global scope,
// keeping the globalref.Handle view and the top-level Options field in
// sync.
func (g *Global) SetLeafCertDir(argv0, value string) error {
	g.leafCertDir = value
	return g.Options.SetLeafCertDir(argv0, value)
}

// SetDefaultLeafCert mirrors SetLeafCertDir for DefaultLeafCert.
func (g *Global) SetDefaultLeafCert(argv0, value string) error {
	if err := g.Options.SetDefaultLeafCert(argv0, value); err != nil {
		return err
	}
	g.defaultLeafCert = value
	return nil
}

// SetExpiredConnCheckPeriod implements the ExpiredConnCheckPeriod
// directive.
func (g *Global) SetExpiredConnCheckPeriod(argv0, value string) error {
	n, err := parseIntRange(argv0, "ExpiredConnCheckPeriod", value, 10, 60)
	if err != nil {
		return err
	}
	g.ExpiredConnCheckPeriod = n
	return nil
}

// SetStatsPeriod implements the StatsPeriod directive.
func (g *Global) SetStatsPeriod(argv0, value string) error {
	n, err := parseIntRange(argv0, "StatsPeriod", value, 1, 10)
	if err != nil {
		return err
	}
	g.StatsPeriod = n
	return nil
}

// SetOpenFilesLimit implements the OpenFilesLimit directive.
func (g *Global) SetOpenFilesLimit(argv0, value string) error {
	n, err := parseIntRange(argv0, "OpenFilesLimit", value, 50, 10000)
	if err != nil {
		return err
	}
	g.OpenFilesLimit = n
	return nil
}

// SetLogStats implements the LogStats directive.
func (g *Global) SetLogStats(argv0, value string) error {
	b, err := options.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s: LogStats: %w", argv0, err)
	}
	g.LogStats = b
	return nil
}

// SetDaemon implements the Daemon directive.
func (g *Global) SetDaemon(argv0, value string) error {
	b, err := options.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s: Daemon: %w", argv0, err)
	}
	g.Daemon = b
	return nil
}

// SetLogProcInfo implements the LogProcInfo directive.
func (g *Global) SetLogProcInfo(argv0, value string) error {
	b, err := options.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s: LogProcInfo: %w", argv0, err)
	}
	g.LogProcInfo = b
	return nil
}

// SetDebug implements the Debug directive.
func (g *Global) SetDebug(argv0, value string) error {
	b, err := options.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s: Debug: %w", argv0, err)
	}
	g.Debug = b
	return nil
}

// SetDebugLevel implements the DebugLevel directive. Accepted values
// are trace, debug, info, warn, and error; validation of the name
// itself is left to internal/platform/logutil.ParseLevel, which maps
// an unrecognized value to info rather than erroring, matching the
// teacher's permissive config-loader fallback for unknown log levels.
func (g *Global) SetDebugLevel(argv0, value string) error {
	g.DebugLevel = value
	return nil
}

// AddListener appends a fully parsed listener spec to the global list.
func (g *Global) AddListener(l *listener.Spec) {
	if g.Listeners == nil {
		g.Listeners = l
	} else {
		g.lastSpec.Next = l
	}
	g.lastSpec = l
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

// Dump renders a deterministic textual form of the process-wide
// scalar fields (paths, periods, limits). Listeners, Options and
// filter rules are not included.
func (g *Global) Dump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Global{\n")
	fmt.Fprintf(&b, "  ConfigPath: %q\n", g.ConfigFilePath)
	fmt.Fprintf(&b, "  PidFile: %q\n", g.PidFile)
	fmt.Fprintf(&b, "  LeafCertDir: %q\n", g.leafCertDir)
	fmt.Fprintf(&b, "  DefaultLeafCert: %q\n", g.defaultLeafCert)
	fmt.Fprintf(&b, "  ExpiredConnCheckPeriod: %d\n", g.ExpiredConnCheckPeriod)
	fmt.Fprintf(&b, "  StatsPeriod: %d\n", g.StatsPeriod)
	fmt.Fprintf(&b, "  OpenFilesLimit: %d\n", g.OpenFilesLimit)
	fmt.Fprintf(&b, "  LogStats: %v\n", g.LogStats)
	b.WriteString("}")
	return b.String()
}
