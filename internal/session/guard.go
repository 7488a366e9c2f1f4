package session

import (
	"time"

	"github.com/dgrijalva/jwt-go"

	"kusina/internal/models"
)

// Outcome is the guard's decision for a requested view.
type Outcome int

const (
	// Render means the view may be shown.
	Render Outcome = iota
	// RedirectLogin means no usable session is present.
	RedirectLogin
	// RedirectHome means the session is authenticated but its role is not
	// allowed the requested view.
	RedirectHome
)

func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	}
	return "unknown"
}

// Guard gates access to a view based on the stored session. An empty
// allowed set means any authenticated role may enter.
//
// The guard is UX convenience only, not a security boundary: it trusts the
// locally cached role claim and performs no network call. Every privileged
// request still carries the bearer token and is re-authorized server-side.
func Guard(store *Store, allowed ...models.Role) Outcome {
	sess, ok := store.Current()
	if !ok || sess.Token == "" {
		return RedirectLogin
	}
	if expired(sess.Token) {
		return RedirectLogin
	}
	if _, valid := models.ParseRole(string(sess.Role)); !valid {
		// Malformed session data is treated as not authenticated.
		return RedirectLogin
	}
	if len(allowed) == 0 {
		return Render
	}
	for _, role := range allowed {
		if sess.Role == role {
			return Render
		}
	}
	return RedirectHome
}

// expired inspects the token's exp claim without verifying the signature;
// the client has no key material and verification is the server's job. A
// token that does not parse as a JWT at all counts as expired.
func expired(token string) bool {
	claims := &jwt.StandardClaims{}
	parser := &jwt.Parser{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return true
	}
	if claims.ExpiresAt == 0 {
		return false
	}
	return time.Now().Unix() >= claims.ExpiresAt
}
