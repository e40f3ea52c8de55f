package www

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPricesHandlerPostRepliesBeforeFetchCompletes(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	handler := NewPricesHandler(slog.Default(), nil, func() { <-release })

	req := httptest.NewRequest(http.MethodPost, "/prices", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	// The fetch task is still blocked on the channel here; the handler
	// must have answered without waiting for it.
	if rec.Code != http.StatusAccepted {
		t.Errorf("expected status %d, got %d", http.StatusAccepted, rec.Code)
	}
}

func TestPricesHandlerMethodNotAllowed(t *testing.T) {
	handler := NewPricesHandler(slog.Default(), nil, func() {})

	req := httptest.NewRequest(http.MethodDelete, "/prices", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}
