package domain

import "time"

// AccountRole scopes what an authenticated account may do.
type AccountRole string

const (
	RoleAdmin AccountRole = "admin"
	RoleUser  AccountRole = "user"
)

// Valid reports whether the role is one of the two known values.
func (r AccountRole) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Account is the domain model for a registered account. Role may be
// empty on older rows; it is normalized to RoleUser at token
// enrichment time, never in storage.
type Account struct {
	ID           string
	Name         string
	Email        string
	Image        string
	PasswordHash string
	Role         AccountRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
