package service

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/mmynk/billsplit/internal/auth"
)

func TestLoginAndProtectedRoutes(t *testing.T) {
	hash, err := auth.HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	jwtManager := newTestJWT()
	env := setupTestServer(t, testOptions{
		cfg: func(cfg *RouterConfig) {
			cfg.Auth = NewAuthService(auth.NewPasswordAuthenticator(hash), jwtManager)
			cfg.JWT = jwtManager
		},
	})

	t.Run("public test endpoint", func(t *testing.T) {
		resp, err := http.Get(env.server.URL + "/test")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		resp, err := http.Get(env.server.URL + "/friends-list")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		body := decodeBody(t, resp)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", resp.StatusCode)
		}
		if got := errorMessage(t, body); got != auth.ErrMissingToken.Error() {
			t.Errorf("error = %q", got)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		resp, body := postJSON(t, env.server.URL+"/login", map[string]string{"password": "battery-staple"})
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", resp.StatusCode)
		}
		if got := errorMessage(t, body); got != auth.ErrInvalidCredentials.Error() {
			t.Errorf("error = %q", got)
		}
	})

	t.Run("login then call", func(t *testing.T) {
		resp, body := postJSON(t, env.server.URL+"/login", map[string]string{
			"password": "correct-horse",
			"device":   "pixel",
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, body %v", resp.StatusCode, body)
		}
		var token string
		if err := json.Unmarshal(body["token"], &token); err != nil || token == "" {
			t.Fatalf("no token in response: %v", body)
		}

		claims, err := jwtManager.Validate(token)
		if err != nil {
			t.Fatalf("issued token does not validate: %v", err)
		}
		if claims.Device != "pixel" {
			t.Errorf("device = %q, want pixel", claims.Device)
		}

		req, _ := http.NewRequest(http.MethodGet, env.server.URL+"/friends-list", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		authed, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		authed.Body.Close()
		if authed.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", authed.StatusCode)
		}
	})
}

func TestLogin_NotMountedWithoutAuth(t *testing.T) {
	env := setupTestServer(t, testOptions{})

	resp, err := http.Post(env.server.URL+"/login", "application/json", nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func newTestJWT() *auth.JWTManager {
	return auth.NewJWTManager("test-secret", time.Hour)
}
