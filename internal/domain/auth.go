package domain

// TokenUser is the user payload embedded in signed tokens and copied
// verbatim into per-request sessions. Both the mint path and the
// session reconstruction path reference this single definition.
type TokenUser struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Image string      `json:"image,omitempty"`
	Role  AccountRole `json:"role"`
}

// IsZero reports whether no principal is embedded.
func (u TokenUser) IsZero() bool {
	return u.ID == ""
}

// TokenUserFromAccount derives the token payload from a freshly
// authenticated account. A missing role defaults to RoleUser; this is
// the only place the normalization happens.
func TokenUserFromAccount(account *Account) TokenUser {
	role := account.Role
	if !role.Valid() {
		role = RoleUser
	}
	return TokenUser{
		ID:    account.ID,
		Name:  account.Name,
		Email: account.Email,
		Image: account.Image,
		Role:  role,
	}
}
