package api

import (
	"context"
	"net/http"

	"kusina/internal/models"
	"kusina/internal/session"
)

// LoginResult is the login response: the bearer token plus the role and id
// the client caches for the session.
type LoginResult struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	ID    int64  `json:"id"`
}

// RegisterRequest creates a new customer account.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// Login authenticates and stores the resulting session. A response with no
// role is treated as a failed login.
func (c *Client) Login(ctx context.Context, username, password string) (*session.Session, error) {
	payload := map[string]string{"username": username, "password": password}

	var res LoginResult
	if err := c.doJSON(ctx, http.MethodPost, "auth", "/auth/login", payload, &res); err != nil {
		return nil, err
	}

	role, ok := models.ParseRole(res.Role)
	if !ok {
		return nil, &Error{StatusCode: http.StatusUnauthorized, Message: "login response missing role"}
	}

	sess := session.Session{Token: res.Token, Role: role, UserID: res.ID}
	if c.sessions != nil {
		c.sessions.Set(sess)
	}
	return &sess, nil
}

// RegisterCustomer creates a customer account. The caller still logs in
// afterwards; registration does not start a session.
func (c *Client) RegisterCustomer(ctx context.Context, req RegisterRequest) error {
	return c.doJSON(ctx, http.MethodPost, "auth", "/auth/register", req, nil)
}

// Logout clears the stored session. Purely local; the backend holds no
// server-side session state for bearer tokens.
func (c *Client) Logout() {
	if c.sessions != nil {
		c.sessions.Clear()
	}
}
