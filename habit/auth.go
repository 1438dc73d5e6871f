package habit

import (
	"context"

	"github.com/habitloop/client-go/schema"
	"github.com/habitloop/client-go/transport"
)

// AuthAPI groups the authentication operations: each validates its payload,
// calls the transport, validates the response, and manages session tokens.
type AuthAPI struct {
	t *transport.Client
}

// NewAuthAPI constructs the auth operation group over a shared transport.
func NewAuthAPI(t *transport.Client) *AuthAPI {
	return &AuthAPI{t: t}
}

// Register creates an account. The payload is validated locally first — a
// password/confirmation mismatch never reaches the network. On success both
// tokens are installed and the full authenticated payload is returned.
func (a *AuthAPI) Register(ctx context.Context, reg schema.Registration) (*schema.AuthResponse, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	resp, err := a.t.Post(ctx, "/auth/register/", reg)
	if err != nil {
		return nil, err
	}
	return a.installSession(resp)
}

// Login authenticates with email and password, installing both tokens on
// success.
func (a *AuthAPI) Login(ctx context.Context, creds schema.LoginCredentials) (*schema.AuthResponse, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	resp, err := a.t.Post(ctx, "/auth/login/", creds)
	if err != nil {
		return nil, err
	}
	return a.installSession(resp)
}

func (a *AuthAPI) installSession(resp *transport.Response) (*schema.AuthResponse, error) {
	out, err := schema.ParseAuthResponse(resp.Body)
	if err != nil {
		return nil, err
	}
	if err := a.t.SetTokens(out.Access, out.Refresh); err != nil {
		return nil, err
	}
	return out, nil
}

// Logout ends the session locally. The service has no logout endpoint; the
// refresh token simply ages out server-side.
func (a *AuthAPI) Logout() error {
	return a.t.ClearTokens()
}

// RefreshToken exchanges the stored refresh token for a new access token.
// ok is false when no usable refresh token exists or the exchange failed; in
// both cases the user must log in again.
func (a *AuthAPI) RefreshToken(ctx context.Context) (*schema.TokenRefreshResponse, bool) {
	access, ok := a.t.RefreshAccessToken(ctx)
	if !ok {
		return nil, false
	}
	return &schema.TokenRefreshResponse{Access: access}, true
}

// CurrentUser fetches and validates the authenticated user's profile.
func (a *AuthAPI) CurrentUser(ctx context.Context) (*schema.User, error) {
	resp, err := a.t.Get(ctx, "/auth/profile/")
	if err != nil {
		return nil, err
	}
	return schema.ParseUser(resp.Body)
}

// UpdateProfile patches the profile with any subset of editable fields. The
// patch is deliberately unvalidated; the returned user is not.
func (a *AuthAPI) UpdateProfile(ctx context.Context, patch schema.ProfileUpdate) (*schema.User, error) {
	resp, err := a.t.Patch(ctx, "/auth/profile/", patch)
	if err != nil {
		return nil, err
	}
	return schema.ParseUser(resp.Body)
}
