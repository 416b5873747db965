package statsrv

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MahdiBaghbani/sslguard/internal/globalstate"
)

type fakeSource struct{ stats Stats }

func (f fakeSource) Stats() Stats { return f.stats }

func TestStatsEndpointReturnsJSON(t *testing.T) {
	g := globalstate.New()
	r := Router(g, fakeSource{stats: Stats{ActiveConns: 3, TotalConns: 42}})

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got Stats
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.ActiveConns != 3 || got.TotalConns != 42 {
		t.Errorf("unexpected stats: %+v", got)
	}
}

func TestFilterDumpEndpointReturnsText(t *testing.T) {
	g := globalstate.New()
	g.ConfigFilePath = "/etc/sslguard.conf"
	r := Router(g, fakeSource{})

	req := httptest.NewRequest(http.MethodGet, "/filter/dump", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.Len() == 0 {
		t.Error("expected non-empty dump body")
	}
}
