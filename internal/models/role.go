package models

// Role names an account's capability level. The backend embeds it in the
// auth token; the client mirrors it to decide which pages to render.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleRider    Role = "rider"
	RoleAdmin    Role = "admin"
)

// ParseRole validates a role string from the backend. Unknown values are
// rejected rather than defaulted so a garbled session never unlocks a
// dashboard.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleCustomer, RoleStaff, RoleRider, RoleAdmin:
		return Role(s), true
	}
	return "", false
}
