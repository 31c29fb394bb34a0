package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/telemetry"
)

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID(), Guest("dev"), Logging())
	router.GET("/api/v1/preview", func(c *gin.Context) {
		c.Set("template", "timeline")
		c.Set("formAction", "preview")
		c.String(http.StatusOK, "<html></html>")
	})

	var buf bytes.Buffer
	defer telemetry.SetOutput(&buf)()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/preview", nil)
	req.Header.Set("X-Guest-Id", "guest1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if got := resp.Header().Get("X-Request-Id"); got == "" {
		t.Fatalf("expected a request id header")
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) == 0 {
		t.Fatalf("expected log output")
	}
	last := lines[len(lines)-1]
	var payload map[string]any
	if err := json.Unmarshal([]byte(last), &payload); err != nil {
		t.Fatalf("decode log json: %v", err)
	}

	required := []string{"request_id", "user_id", "template", "form_action", "export_id", "duration_ms", "status", "route"}
	for _, key := range required {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing log field: %s", key)
		}
	}
	if payload["user_id"] != "guest:guest1" {
		t.Fatalf("unexpected user_id: %v", payload["user_id"])
	}
	if payload["template"] != "timeline" {
		t.Fatalf("unexpected template: %v", payload["template"])
	}
	if payload["form_action"] != "preview" {
		t.Fatalf("unexpected form_action: %v", payload["form_action"])
	}
	if payload["route"] != "/api/v1/preview" {
		t.Fatalf("unexpected route: %v", payload["route"])
	}
}

func TestRequestIDHeaderHandling(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	var seen string
	router.GET("/x", func(c *gin.Context) {
		seen = telemetry.RequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	tests := []struct {
		header string
		reuse  bool
	}{
		{header: "abc-123", reuse: true},
		{header: "", reuse: false},
		{header: "has space", reuse: false},
		{header: strings.Repeat("a", 129), reuse: false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		if tt.header != "" {
			req.Header.Set("X-Request-Id", tt.header)
		}
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		got := resp.Header().Get("X-Request-Id")
		if tt.reuse != (got == tt.header) {
			t.Fatalf("header %q: unexpected id %q", tt.header, got)
		}
		if got == "" || seen != got {
			t.Fatalf("expected request context to carry %q, got %q", got, seen)
		}
	}
}
