package domain

import "time"

// Predefined role names created by the seed data.
const (
	RoleManager  = "Manager"
	RoleCustomer = "Customer"
)

// User represents a registered account
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Age          int
	RoleID       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserWithRole is a user joined with its role and the role's permission names.
// It is loaded in one query at login/registration time and is the only source
// for building a Principal.
type UserWithRole struct {
	User
	RoleName    string
	Permissions []string
}

// Principal builds the token snapshot for this user.
func (u *UserWithRole) Principal() *Principal {
	return &Principal{
		ID:       u.ID,
		Username: u.Username,
		Age:      u.Age,
		Role: RoleClaim{
			Name:        u.RoleName,
			Permissions: u.Permissions,
		},
	}
}
