package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func newTestApp(svc *Service) *fiber.App {
	app := fiber.New()
	NewFiberHandler(svc).RegisterRoutes(app)
	return app
}

func TestHealthz_AlwaysOK(t *testing.T) {
	svc := NewService("v1.2.3", zap.NewNop())
	svc.RegisterChecker("openai", func(ctx context.Context) CheckResult {
		return CheckResult{Status: StatusUnhealthy, Message: "circuit open"}
	})

	resp, err := newTestApp(svc).Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var body HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body.Status != StatusHealthy || body.Version != "v1.2.3" {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestReadyz(t *testing.T) {
	tests := []struct {
		name       string
		status     Status
		wantCode   int
		wantStatus Status
	}{
		{"healthy", StatusHealthy, http.StatusOK, StatusHealthy},
		{"degraded", StatusDegraded, http.StatusOK, StatusDegraded},
		{"unhealthy", StatusUnhealthy, http.StatusServiceUnavailable, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService("", zap.NewNop())
			svc.RegisterChecker("openai", func(ctx context.Context) CheckResult {
				return CheckResult{Status: tt.status}
			})

			resp, err := newTestApp(svc).Test(httptest.NewRequest(http.MethodGet, "/readyz", nil))
			if err != nil {
				t.Fatalf("Failed to make request: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantCode {
				t.Errorf("Expected status %d, got %d", tt.wantCode, resp.StatusCode)
			}

			var body ReadyResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if body.Status != tt.wantStatus {
				t.Errorf("Expected overall %s, got %s", tt.wantStatus, body.Status)
			}
			if body.Checks["openai"].Name != "openai" {
				t.Errorf("expected check name to be filled in, got %+v", body.Checks)
			}
		})
	}
}
