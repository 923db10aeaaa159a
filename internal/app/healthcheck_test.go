package app

import (
	"net/http"
	"testing"
)

func TestGetHealth(t *testing.T) {
	app := newTestApplication()

	w := serve(t, app, http.MethodGet, "/healthcheck", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	resp := decodeResponse[healthcheckResponse](t, w)
	if resp.Status != "UP" {
		t.Errorf("status = %q, want %q", resp.Status, "UP")
	}
	if resp.Environment != "test" {
		t.Errorf("environment = %q, want %q", resp.Environment, "test")
	}
}
