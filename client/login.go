package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/vetcare/vetportal/session"
)

const (
	loginPath       = "login/"
	doctorLoginPath = "doctor/login/"
)

type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Role     string `json:"role"`
		IsStaff  bool   `json:"is_staff"`
	} `json:"user"`
}

// Role resolves the role of the user. The explicit role takes precedence, staff users are doctors.
func (l LoginResponse) Role() session.Role {
	if role := session.ParseRole(l.User.Role); role != "" {
		return role
	}
	if l.User.IsStaff {
		return session.RoleDoctor
	}
	return session.RoleCustomer
}

// Login authenticates against the customer login endpoint and falls back to
// the doctor login endpoint when the former responds with 403. Credentials are
// sent without the stored access token. The resulting session replaces the one
// in the store.
func (c *Client) Login(ctx context.Context, credentials Credentials) (*session.Session, error) {
	if err := validator.New().Struct(credentials); err != nil {
		return nil, err
	}

	doctorLogin := false
	res, err := c.Post(ctx, loginPath, credentials, WithoutAuth())
	if HasStatusCode(err, http.StatusForbidden) {
		c.logger.Debugw("customer login forbidden, trying doctor login", "username", credentials.Username)
		doctorLogin = true
		res, err = c.Post(ctx, doctorLoginPath, credentials, WithoutAuth())
	}
	if err != nil {
		return nil, fmt.Errorf("unable to login: %w", err)
	}

	login := LoginResponse{}
	if err := res.Decode(&login); err != nil {
		return nil, fmt.Errorf("unable to decode login response: %w", err)
	}
	if login.Access == "" {
		return nil, fmt.Errorf("login response doesn't contain an access token")
	}

	role := login.Role()
	if doctorLogin && session.ParseRole(login.User.Role) == "" {
		role = session.RoleDoctor
	}

	username := login.User.Username
	if username == "" {
		username = credentials.Username
	}
	s := session.Session{
		AccessToken:  login.Access,
		RefreshToken: login.Refresh,
		Username:     username,
		Email:        login.User.Email,
		Role:         role,
	}
	if err := session.Save(c.store, s); err != nil {
		return nil, err
	}

	c.logger.Infow("logged in", "username", s.Username, "role", s.Role)
	return &s, nil
}

func (c *Client) Logout() error {
	return c.store.Clear()
}
