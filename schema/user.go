package schema

// User is the account record returned by the service. Timestamps stay in
// their wire form so a validated value round-trips byte-identical.
type User struct {
	ID        int64  `json:"id" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Username  string `json:"username" validate:"required"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Timezone  string `json:"timezone"`
	CreatedAt string `json:"created_at" validate:"required,rfc3339"`
}

// Validate checks the user contract, defaulting an absent timezone to UTC.
func (u *User) Validate() error {
	if u.Timezone == "" {
		u.Timezone = "UTC"
	}
	return check(u)
}

// ParseUser decodes and validates a user response body.
func ParseUser(data []byte) (*User, error) {
	var u User
	if err := decode(data, "user", &u); err != nil {
		return nil, err
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return &u, nil
}

// LoginCredentials is the login payload.
type LoginCredentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Validate checks the login contract.
func (c LoginCredentials) Validate() error { return check(c) }

// Registration is the account-creation payload. The password confirmation
// must be byte-equal to the password; a mismatch is reported on
// password_confirm before any network call happens.
type Registration struct {
	Email           string `json:"email" validate:"required,email"`
	Username        string `json:"username" validate:"required,min=3"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"eqfield=Password"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
}

// Validate checks the registration contract including the cross-field rule.
func (r Registration) Validate() error { return check(r) }

// ProfileUpdate is a partial patch of user-editable fields. It is
// intentionally unvalidated; the server owns the rules for profile edits.
type ProfileUpdate struct {
	Email     *string `json:"email,omitempty"`
	Username  *string `json:"username,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Timezone  *string `json:"timezone,omitempty"`
}

// AuthResponse is the body of a successful login or registration. Only the
// nested user is held to a contract; the token strings are opaque.
type AuthResponse struct {
	User    User   `json:"user"`
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// ParseAuthResponse decodes an auth response and validates the nested user.
func ParseAuthResponse(data []byte) (*AuthResponse, error) {
	var a AuthResponse
	if err := decode(data, "auth response", &a); err != nil {
		return nil, err
	}
	if err := a.User.Validate(); err != nil {
		var verr *ValidationError
		if ok := asValidation(err, &verr); ok {
			return nil, verr.prefix("user")
		}
		return nil, err
	}
	return &a, nil
}

// TokenRefreshResponse wraps the access token returned by a refresh.
type TokenRefreshResponse struct {
	Access string `json:"access"`
}
