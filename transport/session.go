package transport

import (
	"context"
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// refreshPath is the only endpoint the stored refresh token is ever sent to.
const refreshPath = "/auth/token/refresh/"

// SessionInfo describes the in-memory session for diagnostics. ExpiresAt is
// the access token's exp claim; zero when no token is held or the token is
// not a JWT. An expired-but-unrejected token still reports Authenticated —
// the session only ends on a 401, a failed refresh, or an explicit logout.
type SessionInfo struct {
	Authenticated bool
	ExpiresAt     time.Time
}

// SetTokens installs the in-memory access token and, when a refresh token is
// supplied, persists it through the storage strategy. Never contacts the
// network.
func (c *Client) SetTokens(access, refresh string) error {
	c.mu.Lock()
	c.access = access
	c.expiresAt = tokenExpiry(access)
	c.mu.Unlock()
	if refresh != "" {
		return c.storage.Store(refresh)
	}
	return nil
}

// ClearTokens drops the in-memory access token and clears durable storage.
// Idempotent.
func (c *Client) ClearTokens() error {
	c.mu.Lock()
	c.access = ""
	c.expiresAt = time.Time{}
	c.mu.Unlock()
	return c.storage.Clear()
}

// Session reports the current session state.
func (c *Client) Session() SessionInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return SessionInfo{Authenticated: c.access != "", ExpiresAt: c.expiresAt}
}

// RefreshAccessToken exchanges the stored refresh token for a new access
// token. With no stored token it returns ("", false) without a network call.
// Any refresh failure ends the session: tokens are cleared and ("", false)
// is returned rather than an error — the caller must treat it as "log in
// again".
func (c *Client) RefreshAccessToken(ctx context.Context) (string, bool) {
	refresh, err := c.storage.Load()
	if err != nil {
		c.log.Warn("load refresh token", zap.Error(err))
		return "", false
	}
	if refresh == "" {
		return "", false
	}

	resp, err := c.Post(ctx, refreshPath, map[string]string{"refresh": refresh})
	if err != nil {
		// A 401 here already cleared the session via the response hook;
		// clearing again is a no-op.
		if cerr := c.ClearTokens(); cerr != nil {
			c.log.Warn("clear tokens after failed refresh", zap.Error(cerr))
		}
		return "", false
	}

	var out struct {
		Access string `json:"access"`
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil || out.Access == "" {
		_ = c.ClearTokens()
		return "", false
	}
	if err := c.SetTokens(out.Access, ""); err != nil {
		c.log.Warn("install refreshed token", zap.Error(err))
		return "", false
	}
	return out.Access, true
}

// tokenExpiry extracts the exp claim without verifying the signature; the
// client has no signing key and only uses the value for diagnostics.
func tokenExpiry(token string) time.Time {
	if token == "" {
		return time.Time{}
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
