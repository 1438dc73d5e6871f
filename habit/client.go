// Package habit assembles the transport and the operation groups into the
// single client façade consumed by embedding applications.
package habit

import (
	"context"

	"github.com/habitloop/client-go/transport"
)

// Client is the composition root: one shared transport behind the auth and
// habit operation groups, with session controls re-exposed so callers never
// reach into the transport directly.
type Client struct {
	t *transport.Client

	Auth   *AuthAPI
	Habits *HabitAPI
}

// New builds a Client from transport configuration. The storage strategy is
// required; see transport.Config.
func New(cfg transport.Config) (*Client, error) {
	t, err := transport.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{
		t:      t,
		Auth:   NewAuthAPI(t),
		Habits: NewHabitAPI(t),
	}, nil
}

// SetTokens installs the session tokens; see transport.Client.SetTokens.
func (c *Client) SetTokens(access, refresh string) error {
	return c.t.SetTokens(access, refresh)
}

// ClearTokens ends the session locally.
func (c *Client) ClearTokens() error {
	return c.t.ClearTokens()
}

// RefreshAccessToken exchanges the stored refresh token for a new access
// token; ok is false when the session could not be restored.
func (c *Client) RefreshAccessToken(ctx context.Context) (access string, ok bool) {
	return c.t.RefreshAccessToken(ctx)
}

// Session reports the current session state.
func (c *Client) Session() transport.SessionInfo {
	return c.t.Session()
}
