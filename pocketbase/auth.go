package pocketbase

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// sessionSkew treats a token as expired slightly early so in-flight writes
// do not race the server-side expiry.
const sessionSkew = 30 * time.Second

type session struct {
	token     string
	expiresAt time.Time // zero when the token carries no exp claim
}

// Authenticate exchanges admin credentials for a session token used by
// every subsequent request.
func (c *Client) Authenticate(ctx context.Context, identity, password string) error {
	var res struct {
		Token string `json:"token"`
	}

	body := map[string]string{
		"identity": identity,
		"password": password,
	}
	if err := c.do(ctx, "authenticate", http.MethodPost, c.authPath, nil, body, &res); err != nil {
		return err
	}
	if res.Token == "" {
		return &Error{Op: "authenticate", URL: c.baseURL + c.authPath, Message: "auth response carried no token"}
	}

	c.SetToken(res.Token)
	return nil
}

// SetToken installs a pre-issued token as the current session.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = session{token: token, expiresAt: tokenExpiry(token)}
}

// Token returns the current session token, or "" when unauthenticated.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session.token
}

// SessionValid reports whether a token is held and not about to expire.
func (c *Client) SessionValid() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.session.token == "" {
		return false
	}
	if c.session.expiresAt.IsZero() {
		return true
	}
	return time.Now().Add(sessionSkew).Before(c.session.expiresAt)
}

// clearToken drops the session if it still holds token.
func (c *Client) clearToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.token == token {
		c.session = session{}
	}
}

// tokenExpiry reads the exp claim without verifying the signature; the
// client only needs to know when to re-authenticate.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
