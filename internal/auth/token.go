package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is the single outcome callers see for any verification
// failure. Whether the signature was wrong or the token expired stays on
// the server side (wrapped cause), never in a client response.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carries the authenticated user id alongside the registered set.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"userId"`
}

// Codec signs and verifies tokens for the two signing domains. Access and
// refresh tokens use independent secrets and lifetimes; a token from one
// domain never verifies in the other.
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewCodec(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) (*Codec, error) {
	if accessSecret == "" {
		return nil, errors.New("access token secret is required")
	}
	if refreshSecret == "" {
		return nil, errors.New("refresh token secret is required")
	}
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	if refreshTTL <= 0 {
		refreshTTL = time.Hour
	}
	return &Codec{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

// IssueAccess mints a short-lived access token for the user.
func (c *Codec) IssueAccess(userID int64) (string, error) {
	return sign(userID, c.accessSecret, c.accessTTL)
}

// IssueRefresh mints a refresh token for the user.
func (c *Codec) IssueRefresh(userID int64) (string, error) {
	return sign(userID, c.refreshSecret, c.refreshTTL)
}

// VerifyAccess checks signature and expiry against the access domain and
// returns the embedded user id.
func (c *Codec) VerifyAccess(token string) (int64, error) {
	return verify(token, c.accessSecret)
}

// VerifyRefresh checks signature and expiry against the refresh domain and
// returns the embedded user id.
func (c *Codec) VerifyRefresh(token string) (int64, error) {
	return verify(token, c.refreshSecret)
}

func sign(userID int64, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			// The jti makes every minted token distinct even within the
			// one-second timestamp resolution.
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func verify(tokenString string, secret []byte) (int64, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}
