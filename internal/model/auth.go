package model

import (
	"time"

	"github.com/google/uuid"
)

// Verification token types
const (
	TokenTypeOTP           = "otp"
	TokenTypePasswordReset = "password_reset"
)

// VerificationToken is a one-time code stored until used or expired.
type VerificationToken struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	Token     string     `json:"-" db:"token"`
	Type      string     `json:"type" db:"type"`
	ExpiresAt time.Time  `json:"expires_at" db:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty" db:"used_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// TokenResponse carries issued JWT tokens.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// RegisterRequest creates a new account. Either email or phone number must
// be present depending on the auth method.
type RegisterRequest struct {
	FullName    string  `json:"full_name" binding:"required,min=2,max=100"`
	Email       *string `json:"email" binding:"omitempty,email"`
	PhoneNumber *string `json:"phone_number"`
	CountryCode string  `json:"country_code"`
	AuthMethod  string  `json:"auth_method" binding:"omitempty,oneof=email phone both"`
	Password    string  `json:"password" binding:"required,min=8"`
	Role        string  `json:"role" binding:"required,oneof=doctor patient"`
}

// LoginRequest authenticates by email or phone identifier.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// VerifyOTPRequest confirms an account with a one-time code.
type VerifyOTPRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	OTP        string `json:"otp" binding:"required,len=6,numeric"`
}

// RefreshTokenRequest exchanges a refresh token for a new pair.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
