package session

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"

	"kusina/internal/models"
)

func signedToken(t *testing.T, expiresAt int64) string {
	t.Helper()
	claims := jwt.StandardClaims{ExpiresAt: expiresAt}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestGuard(t *testing.T) {
	valid := signedToken(t, time.Now().Add(time.Hour).Unix())
	expired := signedToken(t, time.Now().Add(-time.Hour).Unix())

	tests := []struct {
		name    string
		session *Session
		allowed []models.Role
		want    Outcome
	}{
		{
			name:    "no session redirects to login",
			session: nil,
			allowed: []models.Role{models.RoleAdmin},
			want:    RedirectLogin,
		},
		{
			name:    "empty token redirects to login",
			session: &Session{Token: "", Role: models.RoleAdmin, UserID: 1},
			allowed: []models.Role{models.RoleAdmin},
			want:    RedirectLogin,
		},
		{
			name:    "customer blocked from admin view",
			session: &Session{Token: valid, Role: models.RoleCustomer, UserID: 4},
			allowed: []models.Role{models.RoleAdmin},
			want:    RedirectHome,
		},
		{
			name:    "admin renders admin view",
			session: &Session{Token: valid, Role: models.RoleAdmin, UserID: 1},
			allowed: []models.Role{models.RoleAdmin},
			want:    Render,
		},
		{
			name:    "any authenticated role when no roles declared",
			session: &Session{Token: valid, Role: models.RoleRider, UserID: 3},
			want:    Render,
		},
		{
			name:    "role in multi-role set renders",
			session: &Session{Token: valid, Role: models.RoleStaff, UserID: 2},
			allowed: []models.Role{models.RoleStaff, models.RoleAdmin},
			want:    Render,
		},
		{
			name:    "expired token redirects to login",
			session: &Session{Token: expired, Role: models.RoleAdmin, UserID: 1},
			allowed: []models.Role{models.RoleAdmin},
			want:    RedirectLogin,
		},
		{
			name:    "malformed token treated as not authenticated",
			session: &Session{Token: "not-a-jwt", Role: models.RoleAdmin, UserID: 1},
			allowed: []models.Role{models.RoleAdmin},
			want:    RedirectLogin,
		},
		{
			name:    "unknown role treated as not authenticated",
			session: &Session{Token: valid, Role: "superuser", UserID: 1},
			allowed: []models.Role{models.RoleAdmin},
			want:    RedirectLogin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore()
			if tt.session != nil {
				store.Set(*tt.session)
			}
			if got := Guard(store, tt.allowed...); got != tt.want {
				t.Errorf("Guard() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStoreClear(t *testing.T) {
	store := NewStore()
	store.Set(Session{Token: "tok", Role: models.RoleCustomer, UserID: 4})

	if _, ok := store.Current(); !ok {
		t.Fatal("Current() reported no session after Set")
	}

	store.Clear()
	if _, ok := store.Current(); ok {
		t.Error("Current() reported a session after Clear")
	}
	if store.Token() != "" {
		t.Error("Token() non-empty after Clear")
	}
}
