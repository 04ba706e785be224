package model

import "time"

const (
	RoleTraveler = "traveler"
	RoleOperator = "operator"
	RoleAdmin    = "admin"
)

const (
	OperatorPending  = "pending"
	OperatorApproved = "approved"
	OperatorRejected = "rejected"
)

// OperatorProfile exists only on role=operator accounts. A freshly registered
// operator starts in pending and cannot use elevated routes until an admin
// approves it.
type OperatorProfile struct {
	CompanyName string `json:"company_name" bson:"company_name" validate:"omitempty,min=2,max=100"`
	Status      string `json:"status" bson:"status" validate:"required,oneof=pending approved rejected"`
}

type User struct {
	ID              string           `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	FirstName       string           `json:"first_name" bson:"first_name" validate:"required,min=1,max=100"`
	LastName        string           `json:"last_name" bson:"last_name" validate:"omitempty,max=100"`
	Email           string           `json:"email" bson:"email" validate:"required,email"`
	Password        string           `json:"-" bson:"password"`
	Phone           string           `json:"phone" bson:"phone" validate:"omitempty"`
	Role            string           `json:"role" bson:"role" validate:"required,oneof=traveler operator admin"`
	OperatorProfile *OperatorProfile `json:"operator_profile,omitempty" bson:"operator_profile,omitempty"`
	CreatedAt       time.Time        `json:"created_at" bson:"created_at"`
}

// Sanitized returns a copy safe to put in a response body. The password hash
// is already excluded from JSON, but copying keeps callers from mutating the
// stored record.
func (u *User) Sanitized() *User {
	out := *u
	out.Password = ""
	return &out
}

func (u *User) IsApprovedOperator() bool {
	return u.Role == RoleOperator && u.OperatorProfile != nil && u.OperatorProfile.Status == OperatorApproved
}
