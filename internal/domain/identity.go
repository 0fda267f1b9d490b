package domain

import "fmt"

type Role string

const (
	RoleUser  Role = "user"
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"
)

// Capability is a single permission checked before a protected operation runs.
type Capability string

const (
	CapRequestBooking Capability = "booking:request"
	CapDecideBooking  Capability = "booking:decide"
	CapManageStays    Capability = "stay:manage"
	CapVerifyOwners   Capability = "owner:verify"
)

var roleCapabilities = map[Role]map[Capability]bool{
	RoleUser: {
		CapRequestBooking: true,
	},
	RoleOwner: {
		CapManageStays:   true,
		CapDecideBooking: true,
	},
	RoleAdmin: {
		CapVerifyOwners: true,
	},
}

func (r Role) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// Can reports whether the role grants the capability. Unknown roles grant nothing.
func (r Role) Can(c Capability) bool {
	return roleCapabilities[r][c]
}

// Identity is the resolved caller of a request: a row id in the table that
// belongs to Role (users, owners or admins).
type Identity struct {
	ID   int64
	Role Role
}

func (i Identity) Can(c Capability) bool {
	return i.ID > 0 && i.Role.Can(c)
}

// Key identifies the caller across tables, since user and owner ids overlap.
func (i Identity) Key() string {
	return fmt.Sprintf("%s:%d", i.Role, i.ID)
}
