package middleware

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"contest-hub-service/models"
)

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/open", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/mine", UserContextMiddleware(), func(c *fiber.Ctx) error {
		return c.SendString(UserEmail(c))
	})
	app.Get("/staff", UserContextMiddleware(), RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestPublicRouteNeedsNoHeaders(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/open", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("public route returned %d, want 200", resp.StatusCode)
	}
}

func TestUserContextRequiresEmail(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/mine", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("missing email returned %d, want 401", resp.StatusCode)
	}
}

func TestUserContextNormalizesEmail(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest("GET", "/mine", nil)
	req.Header.Set("X-User-Email", "  MiXeD@Example.COM ")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("request returned %d, want 200", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if got := string(body); got != "mixed@example.com" {
		t.Fatalf("context email = %q, want %q", got, "mixed@example.com")
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name string
		role string
		want int
	}{
		{"admin passes", "admin", fiber.StatusOK},
		{"user denied", "user", fiber.StatusForbidden},
		{"creator denied", "creator", fiber.StatusForbidden},
		{"unknown header degrades to user", "superuser", fiber.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp()
			req := httptest.NewRequest("GET", "/staff", nil)
			req.Header.Set("X-User-Email", "someone@example.com")
			req.Header.Set("X-User-Role", tt.role)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Fatalf("role %s returned %d, want %d", tt.role, resp.StatusCode, tt.want)
			}
		})
	}
}
