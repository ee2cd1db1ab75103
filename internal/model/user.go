package model

import (
	"time"
)

// UserRole constants
const (
	UserRoleDoctor  = "doctor"
	UserRolePatient = "patient"
	UserRoleAdmin   = "admin"
)

// UserStatus constants
const (
	UserStatusPending     = "pending"
	UserStatusActive      = "active"
	UserStatusBlocked     = "blocked"
	UserStatusDeactivated = "deactivated"
)

// AuthMethod constants
const (
	AuthMethodEmail = "email"
	AuthMethodPhone = "phone"
	AuthMethodBoth  = "both"
)

// User represents a platform account (doctor, patient or admin).
type User struct {
	Base
	FullName         string     `json:"full_name" db:"full_name"`
	Email            *string    `json:"email,omitempty" db:"email"`
	PhoneNumber      *string    `json:"phone_number,omitempty" db:"phone_number"`
	CountryCode      string     `json:"country_code" db:"country_code"`
	AuthMethod       string     `json:"auth_method" db:"auth_method"`
	PasswordHash     string     `json:"-" db:"password_hash"`
	Role             string     `json:"role" db:"role"`
	Status           string     `json:"status" db:"status"`
	EmailVerified    bool       `json:"is_email_verified" db:"email_verified"`
	PhoneVerified    bool       `json:"is_phone_verified" db:"phone_verified"`
	ProfileCompleted bool       `json:"profile_completed" db:"profile_completed"`
	LastLoginAt      *time.Time `json:"last_login,omitempty" db:"last_login_at"`
}

// CanLogin reports whether the account is active and verified through its
// chosen auth method.
func (u *User) CanLogin() bool {
	if u.Status != UserStatusActive {
		return false
	}
	switch u.AuthMethod {
	case AuthMethodEmail:
		return u.EmailVerified
	case AuthMethodPhone:
		return u.PhoneVerified
	default:
		return u.EmailVerified || u.PhoneVerified
	}
}

// UserFilters represents user search parameters
type UserFilters struct {
	Role       string `json:"role" form:"role"`
	Status     string `json:"status" form:"status"`
	SearchTerm string `json:"search_term" form:"search_term"`
}
