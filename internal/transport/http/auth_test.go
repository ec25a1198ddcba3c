package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/eventseat/reserve-api/internal/identity"
)

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	verifier := identity.NewVerifier("test-secret", "test-refresh-secret")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userIDFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("X-User-ID", strconv.FormatInt(userID, 10))
		w.WriteHeader(http.StatusOK)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/reservations", nil)
		rec := httptest.NewRecorder()

		RequireAuth(verifier, next).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", rec.Code)
		}
		assertErrorCode(t, rec, codeUnauthenticated)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/reservations", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()

		RequireAuth(verifier, next).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", rec.Code)
		}
		assertErrorCode(t, rec, codeUnauthenticated)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/reservations", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()

		RequireAuth(verifier, next).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", rec.Code)
		}
		assertErrorCode(t, rec, codeInvalidToken)
	})

	t.Run("valid token passes through", func(t *testing.T) {
		token, err := verifier.Issue(5, time.Hour)
		if err != nil {
			t.Fatalf("issue: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/reservations", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		RequireAuth(verifier, next).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if got := rec.Header().Get("X-User-ID"); got != "5" {
			t.Fatalf("expected user id 5 in context, got %q", got)
		}
	})
}

func TestHandleIssueToken(t *testing.T) {
	t.Parallel()

	verifier := identity.NewVerifier("test-secret", "test-refresh-secret")

	t.Run("issues verifiable tokens", func(t *testing.T) {
		body := []byte(`{"user_id":42}`)
		req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewBuffer(body))
		rec := httptest.NewRecorder()

		HandleIssueToken(verifier).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}

		var resp issueTokenResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}

		userID, err := verifier.Verify(resp.AccessToken)
		if err != nil {
			t.Fatalf("verify access token: %v", err)
		}
		if userID != 42 {
			t.Fatalf("expected user id 42, got %d", userID)
		}

		if _, err := verifier.Verify(resp.RefreshToken); err == nil {
			t.Fatalf("expected refresh token to be rejected as access credential")
		}
	})

	t.Run("user_id required", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewBufferString(`{}`))
		rec := httptest.NewRecorder()

		HandleIssueToken(verifier).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
		assertErrorCode(t, rec, codeUserIDRequired)
	})

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/token", nil)
		rec := httptest.NewRecorder()

		HandleIssueToken(verifier).ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected status 405, got %d", rec.Code)
		}
	})
}

func TestHandleRefreshToken(t *testing.T) {
	t.Parallel()

	verifier := identity.NewVerifier("test-secret", "test-refresh-secret")

	post := func(t *testing.T, body string) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		HandleRefreshToken(verifier).ServeHTTP(rec, req)
		return rec
	}

	t.Run("exchanges refresh for access", func(t *testing.T) {
		refresh, err := verifier.IssueRefresh(42, time.Hour)
		if err != nil {
			t.Fatalf("issue refresh: %v", err)
		}

		rec := post(t, `{"refresh_token":"`+refresh+`"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp refreshTokenResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		userID, err := verifier.Verify(resp.AccessToken)
		if err != nil {
			t.Fatalf("verify access token: %v", err)
		}
		if userID != 42 {
			t.Fatalf("expected user id 42, got %d", userID)
		}
	})

	t.Run("access token rejected", func(t *testing.T) {
		access, err := verifier.Issue(42, time.Hour)
		if err != nil {
			t.Fatalf("issue: %v", err)
		}

		rec := post(t, `{"refresh_token":"`+access+`"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", rec.Code)
		}
		assertErrorCode(t, rec, codeInvalidToken)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		rec := post(t, `{"refresh_token":"not.a.jwt"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", rec.Code)
		}
		assertErrorCode(t, rec, codeInvalidToken)
	})

	t.Run("refresh_token required", func(t *testing.T) {
		rec := post(t, `{}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
		assertErrorCode(t, rec, codeRefreshRequired)
	})

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/refresh", nil)
		rec := httptest.NewRecorder()

		HandleRefreshToken(verifier).ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected status 405, got %d", rec.Code)
		}
	})
}
