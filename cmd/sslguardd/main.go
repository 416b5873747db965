// Package main is the entrypoint for the sslguardd process.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/MahdiBaghbani/sslguard/internal/confparse"
	"github.com/MahdiBaghbani/sslguard/internal/globalstate"
	"github.com/MahdiBaghbani/sslguard/internal/platform/logutil"
	"github.com/MahdiBaghbani/sslguard/internal/privdrop"
	"github.com/MahdiBaghbani/sslguard/internal/statsrv"
)

// overrideFlags collects repeated "-o KEY=VALUE" command-line flags.
type overrideFlags []string

func (o *overrideFlags) String() string { return strings.Join(*o, ",") }

func (o *overrideFlags) Set(v string) error {
	*o = append(*o, v)
	return nil
}

// nullStats is the zero-value statsrv.Source used until a real
// connection manager is wired in; it always reports idle counters.
type nullStats struct{}

func (nullStats) Stats() statsrv.Stats { return statsrv.Stats{} }

func main() {
	configPath := flag.String("f", "", "path to configuration file")
	oneLine := flag.String("P", "", "one-line proxy spec, usable instead of or alongside -f")
	statsAddr := flag.String("stats-addr", "", "address to serve the admin HTTP endpoints on, e.g. 127.0.0.1:8000")
	var overrides overrideFlags
	flag.Var(&overrides, "o", "override a directive, KEY=VALUE; may be repeated")
	flag.Parse()

	bootstrapLogger := logutil.New(os.Stdout, slog.LevelInfo)

	if *configPath == "" && *oneLine == "" {
		bootstrapLogger.Error("nothing to do: pass -f <config> and/or -P <one-line spec>")
		os.Exit(1)
	}

	g := globalstate.New()
	g.ConfigFilePath = *configPath

	if *configPath != "" {
		src, err := os.ReadFile(*configPath)
		if err != nil {
			bootstrapLogger.Error("failed to read config file", "path", *configPath, "error", err)
			os.Exit(1)
		}
		if err := confparse.Load(string(src), g, readFile); err != nil {
			bootstrapLogger.Error("failed to parse config file", "path", *configPath, "error", err)
			os.Exit(1)
		}
	}

	if *oneLine != "" {
		if err := confparse.Load("Listener "+*oneLine, g, readFile); err != nil {
			bootstrapLogger.Error("failed to parse -P proxy spec", "spec", *oneLine, "error", err)
			os.Exit(1)
		}
	}

	for _, kv := range overrides {
		if err := confparse.ApplyOverride(g, kv); err != nil {
			bootstrapLogger.Error("failed to apply override", "override", kv, "error", err)
			os.Exit(1)
		}
	}

	// Parsing is complete: build each scope's compiled filter once.
	g.Options.Compile()
	for l := g.Listeners; l != nil; l = l.Next {
		if l.Options != nil {
			l.Options.Compile()
		}
	}

	level := slog.LevelInfo
	if g.Debug {
		level = logutil.ParseLevel(g.DebugLevel)
	}
	logger := logutil.New(os.Stdout, level)
	slog.SetDefault(logger)

	logger.Info("configuration loaded", "config", g.ConfigFilePath, "listeners", countListeners(g))

	if err := privdrop.Apply(privdrop.Config{Chroot: g.Chroot, User: g.User, Group: g.Group}); err != nil {
		logger.Error("failed to drop privileges", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var statsServer *http.Server
	if *statsAddr != "" {
		statsServer = &http.Server{
			Addr:    *statsAddr,
			Handler: statsrv.Router(g, nullStats{}),
		}
		ln, err := net.Listen("tcp", *statsAddr)
		if err != nil {
			logger.Error("failed to bind admin endpoint", "addr", *statsAddr, "error", err)
			os.Exit(1)
		}
		go func() {
			if err := statsServer.Serve(ln); err != nil && err != http.ErrServerClosed {
				logger.Error("admin server error", "error", err)
			}
		}()
		logger.Info("admin endpoint listening", "addr", *statsAddr)
	}

	logger.Info("sslguardd started, press Ctrl+C to stop")
	<-ctx.Done()
	logger.Info("shutdown signal received")

	if statsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := statsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("admin server shutdown error", "error", err)
		}
	}

	logger.Info("sslguardd stopped")
}

// readFile backs confparse's Include directive with the real
// filesystem; tests substitute an in-memory ReadFileFunc instead.
func readFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %q: %w", path, err)
	}
	return string(b), nil
}

func countListeners(g *globalstate.Global) int {
	n := 0
	for l := g.Listeners; l != nil; l = l.Next {
		n++
	}
	return n
}
