package model

import "time"

// RegisterRequest covers both traveler and operator signup. CompanyName is
// only meaningful for operators.
type RegisterRequest struct {
	FirstName   string `json:"first_name" validate:"required,min=1,max=100"`
	LastName    string `json:"last_name" validate:"omitempty,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	Phone       string `json:"phone" validate:"omitempty"`
	Role        string `json:"role" validate:"required,oneof=traveler operator"`
	CompanyName string `json:"company_name" validate:"omitempty,min=2,max=100"`
}

// LoginRequest carries an optional AdminOnly flag used by the admin console
// login form to reject non-admin accounts up front.
type LoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	AdminOnly bool   `json:"admin_only"`
}

// AuthResult is returned from login and from traveler registration. Operator
// registration returns no token; the account waits for admin approval.
type AuthResult struct {
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
	User      *User     `json:"user"`
}
