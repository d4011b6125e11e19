package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"speech-coach/internal/service"
)

// identityKey is the context key for the authenticated user id set by the
// auth middleware. Handlers read it through currentUserID only.
const identityKey = "auth.userID"

const bearerPrefix = "Bearer "

// bearerToken extracts the credential from the Authorization header.
// Missing header and a non-Bearer scheme are the same outcome: no credential.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", false
	}
	return token, true
}

// requireAccess gates a route on a valid access token. A missing or
// malformed header is 401; a credential that fails verification is 403, so
// clients can tell "log in" apart from "token went stale".
func (h *Handler) requireAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "access denied, token missing or malformed")
			c.Abort()
			return
		}

		userID, err := h.codec.VerifyAccess(token)
		if err != nil {
			h.logger.Debugf("access token rejected: %v", err)
			respondError(c, http.StatusForbidden, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(identityKey, userID)
		c.Next()
	}
}

// requireRefresh gates a route on a refresh token that both verifies
// cryptographically and still has a live row in the store. A row past the
// freshness window is deleted on the spot and the request rejected.
func (h *Handler) requireRefresh() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "access denied, token missing or malformed")
			c.Abort()
			return
		}

		userID, err := h.codec.VerifyRefresh(token)
		if err != nil {
			h.logger.Debugf("refresh token rejected: %v", err)
			respondError(c, http.StatusForbidden, "invalid or expired token")
			c.Abort()
			return
		}

		if err := h.users.ValidateRefresh(c.Request.Context(), userID, token); err != nil {
			switch {
			case errors.Is(err, service.ErrRefreshTokenExpired):
				respondError(c, http.StatusForbidden, "refresh token expired")
			case errors.Is(err, service.ErrRefreshTokenInvalid):
				respondError(c, http.StatusForbidden, "invalid or expired token")
			default:
				h.logger.Errorf("validate refresh token: %v", err)
				respondError(c, http.StatusInternalServerError, "internal server error")
			}
			c.Abort()
			return
		}

		c.Set(identityKey, userID)
		c.Next()
	}
}

// currentUserID returns the identity attached by the auth middleware.
func currentUserID(c *gin.Context) (int64, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return 0, false
	}
	userID, ok := value.(int64)
	return userID, ok
}

// mustUserID fetches the identity or fails the request; it only trips when a
// handler is wired without its gate.
func mustUserID(c *gin.Context) (int64, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "user not authenticated")
		c.Abort()
	}
	return userID, ok
}
