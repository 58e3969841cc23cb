package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBearerAuthMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name   string
		keys   []string
		method string
		path   string
		header string
		want   int
	}{
		{name: "no keys disables auth", keys: nil, method: http.MethodPost, path: "/v1/analyze", want: http.StatusOK},
		{name: "blank keys disable auth", keys: []string{"", ""}, method: http.MethodPost, path: "/v1/analyze", want: http.StatusOK},
		{name: "missing header", keys: []string{"secret"}, method: http.MethodPost, path: "/v1/analyze", want: http.StatusUnauthorized},
		{
			name: "basic scheme", keys: []string{"secret"}, method: http.MethodPost, path: "/v1/analyze",
			header: "Basic dXNlcjpwYXNz", want: http.StatusUnauthorized,
		},
		{
			name: "wrong key", keys: []string{"secret"}, method: http.MethodGet, path: "/v1/alternatives",
			header: "Bearer wrong-key", want: http.StatusUnauthorized,
		},
		{
			name: "key prefix", keys: []string{"secret"}, method: http.MethodPost, path: "/v1/analyze/text",
			header: "Bearer secre", want: http.StatusUnauthorized,
		},
		{
			name: "valid key", keys: []string{"secret"}, method: http.MethodPost, path: "/v1/query",
			header: "Bearer secret", want: http.StatusOK,
		},
		{
			name: "second of two keys", keys: []string{"key1", "key2"}, method: http.MethodPost, path: "/v1/analyze",
			header: "Bearer key2", want: http.StatusOK,
		},
		{name: "health exempt", keys: []string{"secret"}, method: http.MethodGet, path: "/health", want: http.StatusOK},
		{name: "metrics exempt", keys: []string{"secret"}, method: http.MethodGet, path: "/metrics", want: http.StatusOK},
		{name: "version exempt", keys: []string{"secret"}, method: http.MethodGet, path: "/version", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			BearerAuthMiddleware(tt.keys)(ok).ServeHTTP(rr, req)

			if rr.Code != tt.want {
				t.Fatalf("got %d, want %d", rr.Code, tt.want)
			}
			if tt.want != http.StatusUnauthorized {
				return
			}

			var errResp ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if errResp.Code != ErrorCodeUnauthorized {
				t.Errorf("error code: got %s, want %s", errResp.Code, ErrorCodeUnauthorized)
			}
		})
	}
}
