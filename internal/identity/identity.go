package identity

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingToken means no usable bearer credential was presented.
	ErrMissingToken = errors.New("missing bearer token")
	// ErrInvalidToken means the credential failed signature, expiry or
	// claim checks.
	ErrInvalidToken = errors.New("invalid token")
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims is the token payload. UserID is the caller identity everything
// downstream trusts.
type Claims struct {
	UserID int64  `json:"user_id"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

// Verifier resolves bearer credentials into user ids. Access and refresh
// tokens are signed with separate keys, so a leaked access key can never
// mint long-lived refresh credentials. Both keys are passed in at
// construction so tests can run with fixed keys.
type Verifier struct {
	key        []byte
	refreshKey []byte
}

func NewVerifier(secret, refreshSecret string) *Verifier {
	return &Verifier{
		key:        []byte(secret),
		refreshKey: []byte(refreshSecret),
	}
}

// Verify returns the user id carried by a valid access token.
func (v *Verifier) Verify(token string) (int64, error) {
	return v.verify(token, v.key, tokenTypeAccess)
}

// VerifyRefresh returns the user id carried by a valid refresh token.
// Access tokens are never accepted here, and refresh tokens are never
// accepted by Verify.
func (v *Verifier) VerifyRefresh(token string) (int64, error) {
	return v.verify(token, v.refreshKey, tokenTypeRefresh)
}

func (v *Verifier) verify(token string, key []byte, tokenType string) (int64, error) {
	if token == "" {
		return 0, ErrMissingToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}
	if claims.Type != tokenType {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}

// Issue mints a signed access token for userID.
func (v *Verifier) Issue(userID int64, ttl time.Duration) (string, error) {
	return v.sign(userID, tokenTypeAccess, v.key, ttl)
}

// IssueRefresh mints a signed refresh token for userID.
func (v *Verifier) IssueRefresh(userID int64, ttl time.Duration) (string, error) {
	return v.sign(userID, tokenTypeRefresh, v.refreshKey, ttl)
}

func (v *Verifier) sign(userID int64, tokenType string, key []byte, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID: userID,
		Type:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}
