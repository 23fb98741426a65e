package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestBearerAuthMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		keys   []string
		path   string
		header string
		want   int
	}{
		{"no keys passes through", nil, "/state", "", http.StatusOK},
		{"blank keys pass through", []string{"", ""}, "/state", "", http.StatusOK},
		{"missing header", []string{"secret"}, "/state", "", http.StatusUnauthorized},
		{"basic scheme", []string{"secret"}, "/state", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"wrong token", []string{"secret"}, "/state", "Bearer wrong", http.StatusUnauthorized},
		{"valid token", []string{"secret"}, "/state", "Bearer secret", http.StatusOK},
		{"second key", []string{"k1", "k2"}, "/state", "Bearer k2", http.StatusOK},
		{"health exempt", []string{"secret"}, "/health", "", http.StatusOK},
		{"metrics exempt", []string{"secret"}, "/metrics", "", http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := BearerAuthMiddleware(tc.keys)(okHandler())

			req := httptest.NewRequest("GET", tc.path, http.NoBody)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tc.want {
				t.Errorf("got %d, want %d", rr.Code, tc.want)
			}
		})
	}
}

func TestBearerAuthMiddleware_ErrorBody(t *testing.T) {
	handler := BearerAuthMiddleware([]string{"secret"})(okHandler())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/state", http.NoBody))

	var errResp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != codeUnauthorized {
		t.Errorf("code = %q, want %q", errResp.Code, codeUnauthorized)
	}
	if errResp.Message != "missing authorization header" {
		t.Errorf("message = %q", errResp.Message)
	}
}
