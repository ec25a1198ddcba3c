package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/eventseat/reserve-api/internal/identity"
)

const (
	accessTokenTTL  = 1 * time.Hour
	refreshTokenTTL = 24 * time.Hour
)

type userIDKey struct{}

// TokenVerifier is the minimal identity capability handlers depend on.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

// RequireAuth resolves the bearer credential into a user id before the
// wrapped handler runs. Identity failures never reach allocation logic.
func RequireAuth(verifier TokenVerifier, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, codeUnauthenticated, "missing bearer token")
			return
		}

		userID, err := verifier.Verify(token)
		if err != nil {
			if errors.Is(err, identity.ErrMissingToken) {
				writeError(w, http.StatusUnauthorized, codeUnauthenticated, "missing bearer token")
				return
			}
			writeError(w, http.StatusUnauthorized, codeInvalidToken, "invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey{}, userID)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

func userIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey{}).(int64)
	return id, ok
}

// TokenIssuer mints signed tokens for a user id.
type TokenIssuer interface {
	Issue(userID int64, ttl time.Duration) (string, error)
	IssueRefresh(userID int64, ttl time.Duration) (string, error)
}

// HandleIssueToken returns an HTTP handler that signs access and refresh
// tokens for a caller-supplied user id. There is no user store in this
// service; identity provisioning lives elsewhere.
func HandleIssueToken(issuer TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req issueTokenRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.UserID <= 0 {
			writeError(w, http.StatusBadRequest, codeUserIDRequired, "user_id is required")
			return
		}

		access, err := issuer.Issue(req.UserID, accessTokenTTL)
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		refresh, err := issuer.IssueRefresh(req.UserID, refreshTokenTTL)
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(issueTokenResponse{
			AccessToken:  access,
			RefreshToken: refresh,
		})
	}
}

// TokenRefresher exchanges refresh tokens for fresh access tokens.
type TokenRefresher interface {
	VerifyRefresh(token string) (int64, error)
	Issue(userID int64, ttl time.Duration) (string, error)
}

// HandleRefreshToken returns an HTTP handler that trades a valid refresh
// token for a new access token. Access tokens are rejected here the same
// way refresh tokens are rejected by RequireAuth.
func HandleRefreshToken(refresher TokenRefresher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req refreshTokenRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.RefreshToken == "" {
			writeError(w, http.StatusBadRequest, codeRefreshRequired, "refresh_token is required")
			return
		}

		userID, err := refresher.VerifyRefresh(req.RefreshToken)
		if err != nil {
			writeError(w, http.StatusUnauthorized, codeInvalidToken, "invalid token")
			return
		}

		access, err := refresher.Issue(userID, accessTokenTTL)
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(refreshTokenResponse{AccessToken: access})
	}
}

type issueTokenRequest struct {
	UserID int64 `json:"user_id"`
}

type issueTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type refreshTokenResponse struct {
	AccessToken string `json:"access_token"`
}
