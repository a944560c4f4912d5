package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eventkeeper/reminder-service/internal/auth"
	"github.com/gin-gonic/gin"
)

func TestTokenRoundTrip(t *testing.T) {
	m := auth.NewManager("test-secret", time.Hour)

	token, err := m.IssueToken("alice")
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	username, err := m.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}
	if username != "alice" {
		t.Errorf("VerifyToken() = %q, want %q", username, "alice")
	}
}

func TestVerifyTokenRejections(t *testing.T) {
	m := auth.NewManager("test-secret", time.Hour)

	expired := auth.NewManager("test-secret", -time.Minute)
	expiredToken, err := expired.IssueToken("alice")
	if err != nil {
		t.Fatal(err)
	}

	other := auth.NewManager("other-secret", time.Hour)
	foreignToken, err := other.IssueToken("alice")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "empty", token: ""},
		{name: "expired", token: expiredToken},
		{name: "wrong secret", token: foreignToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.VerifyToken(tt.token); err == nil {
				t.Error("VerifyToken() accepted invalid token")
			}
		})
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := auth.NewManager("test-secret", time.Hour)

	r := gin.New()
	r.GET("/protected", auth.Middleware(m), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(auth.ContextUserKey))
	})

	token, err := m.IssueToken("alice")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "valid token", header: "Bearer " + token, wantStatus: http.StatusOK, wantBody: "alice"},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "malformed header", header: "Bearer", wantStatus: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer nope", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && w.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}
