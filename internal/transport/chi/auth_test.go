package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	gen "github.com/kailas-cloud/leadex/internal/transport/generated"
)

// roleHandler echoes the role found in the request context.
func roleHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, _ := RoleFromContext(r.Context())
		_, _ = w.Write([]byte(role))
	})
}

func TestAuthMiddleware_EmptyKeys_AdminPassThrough(t *testing.T) {
	handler := BearerAuthMiddleware(nil, nil)(roleHandler())

	req := httptest.NewRequest("GET", "/leads", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("empty keys: got %d, want %d", rr.Code, http.StatusOK)
	}
	if rr.Body.String() != string(RoleAdmin) {
		t.Errorf("role: got %q, want %q", rr.Body.String(), RoleAdmin)
	}
}

func TestAuthMiddleware_EmptyStringKeys_PassThrough(t *testing.T) {
	handler := BearerAuthMiddleware([]string{"", ""}, []string{""})(roleHandler())

	req := httptest.NewRequest("GET", "/leads", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("empty string keys: got %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestAuthMiddleware_MissingHeader_401(t *testing.T) {
	handler := BearerAuthMiddleware([]string{"secret"}, nil)(roleHandler())

	req := httptest.NewRequest("GET", "/leads", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("missing header: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}

	var errResp gen.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != gen.ErrorResponseCodeUnauthorized {
		t.Errorf("error code: got %s, want %s", errResp.Code, gen.ErrorResponseCodeUnauthorized)
	}
}

func TestAuthMiddleware_BasicScheme_401(t *testing.T) {
	handler := BearerAuthMiddleware([]string{"secret"}, nil)(roleHandler())

	req := httptest.NewRequest("GET", "/leads", http.NoBody)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("basic scheme: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_InvalidToken_401(t *testing.T) {
	handler := BearerAuthMiddleware([]string{"secret"}, []string{"root"})(roleHandler())

	req := httptest.NewRequest("GET", "/leads", http.NoBody)
	req.Header.Set("Authorization", "Bearer wrong-key")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("invalid token: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_Roles(t *testing.T) {
	handler := BearerAuthMiddleware([]string{"user-key", "both"}, []string{"admin-key", "both"})(roleHandler())

	tests := []struct {
		key  string
		want Role
	}{
		{"user-key", RoleUser},
		{"admin-key", RoleAdmin},
		{"both", RoleAdmin},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/leads", http.NoBody)
		req.Header.Set("Authorization", "Bearer "+tt.key)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("key %s: got %d, want %d", tt.key, rr.Code, http.StatusOK)
		}
		if rr.Body.String() != string(tt.want) {
			t.Errorf("key %s: role %q, want %q", tt.key, rr.Body.String(), tt.want)
		}
	}
}

func TestAuthMiddleware_ExemptPaths(t *testing.T) {
	handler := BearerAuthMiddleware([]string{"secret"}, nil)(roleHandler())

	for _, path := range []string{"/health", "/metrics"} {
		req := httptest.NewRequest("GET", path, http.NoBody)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("exempt path %s: got %d, want %d", path, rr.Code, http.StatusOK)
		}
	}
}
