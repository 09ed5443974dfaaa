// file: internal/server/error_handler_test.go
// version: 2.0.0
// guid: 6e7f8a9b-0c1d-2e3f-4a5b-6c7d8e9f0a1b

package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jdfalk/media-metadata-gateway/internal/metadata"
)

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)
	return c, w
}

func TestRespondWithBadRequest(t *testing.T) {
	c, w := newTestContext(t)

	RespondWithBadRequest(c, "test error")

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	if !contains(w.Body.String(), "test error") {
		t.Errorf("expected error message in response, got %q", w.Body.String())
	}
}

func TestRespondWithNotFound(t *testing.T) {
	c, w := newTestContext(t)

	RespondWithNotFound(c, "media", "B0099RKRTO")

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}

	if !contains(w.Body.String(), "not found") {
		t.Errorf("expected 'not found' in response, got %q", w.Body.String())
	}

	if !contains(w.Body.String(), "B0099RKRTO") {
		t.Errorf("expected identifier in response, got %q", w.Body.String())
	}
}

func TestRespondWithInternalError(t *testing.T) {
	c, w := newTestContext(t)

	RespondWithInternalError(c, "assertion failed")

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
}

func TestRespondWithUpstreamError(t *testing.T) {
	c, w := newTestContext(t)

	RespondWithUpstreamError(c, "catalog unreachable")

	if w.Code != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", w.Code)
	}

	if !contains(w.Body.String(), "UPSTREAM_ERROR") {
		t.Errorf("expected UPSTREAM_ERROR code in response, got %q", w.Body.String())
	}
}

func TestRespondWithProviderError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing record",
			err:        metadata.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "locale misconfiguration",
			err:        &metadata.ConfigError{Source: metadata.SourceAudible, Locale: "xx"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
		},
		{
			name:       "normalization assertion",
			err:        &metadata.AssertionError{Source: metadata.SourceAudible, Message: "stored image in search result"},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
		{
			name:       "upstream status failure",
			err:        &metadata.UpstreamError{Source: metadata.SourceTMDB, Op: "search", Status: 503},
			wantStatus: http.StatusBadGateway,
			wantCode:   "UPSTREAM_ERROR",
		},
		{
			name:       "unclassified failure",
			err:        errors.New("connection reset"),
			wantStatus: http.StatusBadGateway,
			wantCode:   "UPSTREAM_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(t)

			RespondWithProviderError(c, metadata.SourceAudible, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if !contains(w.Body.String(), tt.wantCode) {
				t.Errorf("expected code %q in response, got %q", tt.wantCode, w.Body.String())
			}
		})
	}
}

func TestRespondWithProviderError_WrappedNotFound(t *testing.T) {
	c, w := newTestContext(t)

	wrapped := &metadata.UpstreamError{Source: metadata.SourceOpenLibrary, Op: "search", Err: metadata.ErrNotFound}
	RespondWithProviderError(c, metadata.SourceOpenLibrary, wrapped)

	// Unwrap wins over the error's own type: a wrapped sentinel still maps
	// to 404.
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestParseQueryInt(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?page=3", nil)

	value := ParseQueryInt(c, "page", 1)
	if value != 3 {
		t.Errorf("expected 3, got %d", value)
	}

	value = ParseQueryInt(c, "missing", 1)
	if value != 1 {
		t.Errorf("expected 1, got %d", value)
	}
}

func TestParseQueryIntInvalid(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?page=abc", nil)

	value := ParseQueryInt(c, "page", 1)
	if value != 1 {
		t.Errorf("expected fallback 1, got %d", value)
	}
}

// Helper function to check if substring exists
func contains(s, substr string) bool {
	for i := 0; i < len(s)-len(substr)+1; i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
