package domain

import "time"

// Role is the authorization role of a user.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleDriver Role = "driver"
)

// User is an account of the fleet backend: an administrator or a driver.
type User struct {
	ID            string
	FullName      string `validate:"required,max=120"`
	Email         string `validate:"required,email"`
	PasswordHash  string
	Role          Role   `validate:"oneof=admin driver"`
	Phone         string `validate:"max=30"`
	HireDate      time.Time
	LicenseNumber string `validate:"max=50"`
	LicenseExpiry time.Time
	ProfileImage  string
	IsDeleted     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsDriver reports whether the user can be assigned to trips.
func (u *User) IsDriver() bool {
	return u.Role == RoleDriver && !u.IsDeleted
}

// UserSummary is the subset of a user embedded in populated trips.
type UserSummary struct {
	ID       string
	FullName string
	Email    string
	Phone    string
}

// Summary returns the populated view of the user.
func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, FullName: u.FullName, Email: u.Email, Phone: u.Phone}
}
