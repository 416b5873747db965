package certstore

import (
	"context"

	"github.com/cenkalti/backoff/v5"
)

// ReloadGenCert reloads a leaf certificate out of a WriteGenCertsDir
// directory, retrying transient read failures. A directory watcher can
// fire before a concurrently-running writer has finished the file, so
// a handful of short retries absorb that race instead of surfacing it
// as a load failure.
func ReloadGenCert(ctx context.Context, path string) (*Handle, error) {
	return backoff.Retry(ctx, func() (*Handle, error) {
		return LoadCert(path)
	}, backoff.WithMaxTries(5))
}

// ReloadGenKey mirrors ReloadGenCert for the matching private key file.
func ReloadGenKey(ctx context.Context, path string) (*Handle, error) {
	return backoff.Retry(ctx, func() (*Handle, error) {
		return LoadKey(path)
	}, backoff.WithMaxTries(5))
}
