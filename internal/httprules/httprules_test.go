package httprules

import (
	"net/http"
	"testing"
)

func TestApplyRemovesConfiguredHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Accept-Encoding", "gzip")
	h.Set("Referer", "https://example.com")
	h.Set("X-Custom", "keep-me")

	if err := Apply(h, Policy{RemoveAcceptEncoding: true, RemoveReferer: true}); err != nil {
		t.Fatal(err)
	}
	if h.Get("Accept-Encoding") != "" {
		t.Error("expected Accept-Encoding removed")
	}
	if h.Get("Referer") != "" {
		t.Error("expected Referer removed")
	}
	if h.Get("X-Custom") != "keep-me" {
		t.Error("expected unrelated header preserved")
	}
}

func TestApplyRejectsOversizedHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("X-Big", "0123456789")
	if err := Apply(h, Policy{MaxHeaderSize: 5}); err == nil {
		t.Fatal("expected error for header block exceeding the size limit")
	}
}

func TestApplyAcceptsWellFormedHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Host", "example.com")
	if err := Apply(h, Policy{MaxHeaderSize: 1024}); err != nil {
		t.Fatal(err)
	}
}
