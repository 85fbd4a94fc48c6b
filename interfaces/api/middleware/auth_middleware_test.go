package middleware

import (
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "test-secret"

func newTestApp(t *testing.T) (*fiber.App, *uuid.UUID) {
	t.Helper()
	os.Setenv("JWT_SECRET", testSecret)
	t.Cleanup(func() { os.Unsetenv("JWT_SECRET") })

	app := fiber.New()
	var seenUserID uuid.UUID
	app.Get("/protected", NewAuthMiddleware().Protected(), func(c *fiber.Ctx) error {
		userID, err := GetUserUUID(c)
		if err != nil {
			return err
		}
		seenUserID = userID
		return c.SendStatus(fiber.StatusOK)
	})
	return app, &seenUserID
}

func signToken(t *testing.T, sub string, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestProtected(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		header     func(t *testing.T) string
		wantStatus int
	}{
		{
			"valid token",
			func(t *testing.T) string { return "Bearer " + signToken(t, userID.String(), testSecret) },
			fiber.StatusOK,
		},
		{
			"missing header",
			func(t *testing.T) string { return "" },
			fiber.StatusUnauthorized,
		},
		{
			"not bearer",
			func(t *testing.T) string { return "Basic abc" },
			fiber.StatusUnauthorized,
		},
		{
			"garbage token",
			func(t *testing.T) string { return "Bearer not-a-token" },
			fiber.StatusUnauthorized,
		},
		{
			"wrong secret",
			func(t *testing.T) string { return "Bearer " + signToken(t, userID.String(), "other-secret") },
			fiber.StatusUnauthorized,
		},
		{
			"non uuid subject",
			func(t *testing.T) string { return "Bearer " + signToken(t, "not-a-uuid", testSecret) },
			fiber.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, seen := newTestApp(t)

			req := httptest.NewRequest("GET", "/protected", nil)
			if header := tt.header(t); header != "" {
				req.Header.Set("Authorization", header)
			}

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.wantStatus == fiber.StatusOK && *seen != userID {
				t.Errorf("handler saw user %s, want %s", *seen, userID)
			}
		})
	}
}

func TestExpiredToken(t *testing.T) {
	app, _ := newTestApp(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": uuid.New().String(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for expired token", resp.StatusCode)
	}
}
