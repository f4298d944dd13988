package model

import "time"

type Role string

const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
)

func (r Role) IsValid() bool {
	return r == RoleOwner || r == RoleMember
}

type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	OrganizationID int64     `json:"organization_id"`
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}

// Identity is the authenticated caller of a request. It is resolved once per
// request and passed explicitly to every service call.
type Identity struct {
	UserID         int64
	OrganizationID int64
	Role           Role
	Email          string
}

func (i Identity) IsOwner() bool {
	return i.Role == RoleOwner
}

func IdentityOf(u *User) Identity {
	return Identity{
		UserID:         u.ID,
		OrganizationID: u.OrganizationID,
		Role:           u.Role,
		Email:          u.Email,
	}
}
