package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tradeup/internal/security"
	"tradeup/internal/service"
)

func newTestMiddleware(t *testing.T) (*Middleware, *security.TokenIssuer) {
	t.Helper()
	issuer, err := security.NewTokenIssuer("test-secret", time.Minute)
	if err != nil {
		t.Fatalf("NewTokenIssuer() error = %v", err)
	}
	authService := service.NewAuthService(nil, issuer, time.Hour)
	return NewMiddleware(authService), issuer
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	m, _ := newTestMiddleware(t)

	handler := m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run without a token")
	})

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic abc"},
		{"empty bearer", "Bearer "},
		{"garbage token", "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/api/progress", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()

			handler(recorder, request)

			if recorder.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", recorder.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestRequireAuthPassesUserID(t *testing.T) {
	m, issuer := newTestMiddleware(t)

	token, err := issuer.Issue("user-42", time.Now())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	var gotUserID string
	handler := m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	request := httptest.NewRequest("GET", "/api/progress", nil)
	request.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()

	handler(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusOK)
	}
	if gotUserID != "user-42" {
		t.Errorf("user ID = %q, want %q", gotUserID, "user-42")
	}
}

func TestRateLimitBlocksAfterBudget(t *testing.T) {
	m, _ := newTestMiddleware(t)
	limiter := security.NewRateLimiter(2, time.Minute)

	handler := m.RateLimit(limiter, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		request := httptest.NewRequest("POST", "/api/auth/login", nil)
		request.RemoteAddr = "10.0.0.1:1234"
		recorder := httptest.NewRecorder()
		handler(recorder, request)
		if recorder.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want %d", i, recorder.Code, http.StatusOK)
		}
	}

	request := httptest.NewRequest("POST", "/api/auth/login", nil)
	request.RemoteAddr = "10.0.0.1:1234"
	recorder := httptest.NewRecorder()
	handler(recorder, request)
	if recorder.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", recorder.Code, http.StatusTooManyRequests)
	}
}
