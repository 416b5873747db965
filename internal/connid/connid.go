// Package connid generates the unique per-connection identifier used
// to correlate a connection's log lines, content-log file, and pcap
// capture across the proxy's lifetime.
package connid

import "github.com/google/uuid"

// New returns a fresh connection identifier.
func New() string {
	return uuid.NewString()
}
