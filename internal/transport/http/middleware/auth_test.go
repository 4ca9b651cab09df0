package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func authProbe(t *testing.T, authHeader string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	AuthMiddleware(testSecret)(next).ServeHTTP(rec, req)
	return rec, gotUserID
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"user_id": "u-1",
		"exp":     time.Now().Add(time.Minute).Unix(),
		"iat":     time.Now().Unix(),
	}, testSecret)

	rec, userID := authProbe(t, "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if userID != "u-1" {
		t.Fatalf("expected user id in context, got %q", userID)
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	expired := signToken(t, jwt.MapClaims{
		"user_id": "u-1",
		"exp":     time.Now().Add(-time.Minute).Unix(),
	}, testSecret)
	wrongKey := signToken(t, jwt.MapClaims{
		"user_id": "u-1",
		"exp":     time.Now().Add(time.Minute).Unix(),
	}, "other-secret")
	noUser := signToken(t, jwt.MapClaims{
		"exp": time.Now().Add(time.Minute).Unix(),
	}, testSecret)

	cases := []string{
		"",
		"Basic abc",
		"Bearer not-a-jwt",
		"Bearer " + expired,
		"Bearer " + wrongKey,
		"Bearer " + noUser,
	}

	for _, header := range cases {
		rec, _ := authProbe(t, header)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, rec.Code)
		}
	}
}
