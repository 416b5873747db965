package certstore

import (
	"context"
	"testing"
)

func TestReloadGenCertSucceedsOnExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTestCert(t, dir, "leaf.pem")

	h, err := ReloadGenCert(context.Background(), path)
	if err != nil {
		t.Fatalf("ReloadGenCert: %v", err)
	}
	if h.Certificate() == nil {
		t.Fatal("expected parsed certificate")
	}
}

func TestReloadGenKeySucceedsOnExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTestKey(t, dir, "leaf.key")

	h, err := ReloadGenKey(context.Background(), path)
	if err != nil {
		t.Fatalf("ReloadGenKey: %v", err)
	}
	if h.PrivateKey() == nil {
		t.Fatal("expected parsed private key")
	}
}

func TestReloadGenCertPropagatesErrorAfterRetries(t *testing.T) {
	dir := t.TempDir()
	_, err := ReloadGenCert(context.Background(), dir+"/does-not-exist.pem")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
