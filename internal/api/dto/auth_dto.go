package dto

import "time"

// LoginRequest payload for password login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionUser mirrors the user payload carried by tokens and sessions.
type SessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
	Role  string `json:"role"`
}

// ProviderDescriptor describes one sign-in option.
type ProviderDescriptor struct {
	Kind   string          `json:"kind"`
	Name   string          `json:"name"`
	Fields []ProviderField `json:"fields,omitempty"`
}

// ProviderField describes one credential input.
type ProviderField struct {
	Name string `json:"name"`
	Type string `json:"type"`
}
