package user

import "github.com/google/uuid"

type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleMember, RoleAdmin:
		return true
	default:
		return false
	}
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Actor is the authenticated identity a request acts as. Identity issuance
// lives outside this service; the token carries everything the core needs,
// so later profile changes never alter historical booking records.
type Actor struct {
	ID    uuid.UUID
	Name  string
	Email string
	Role  Role
}
