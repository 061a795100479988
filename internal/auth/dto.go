package auth

import (
	"strings"

	"github.com/gaslink/gaslink-backend/internal/users"
)

// OTPPurpose distinguishes sign-in from sign-up code requests.
type OTPPurpose string

const (
	OTPPurposeSignin OTPPurpose = "signin"
	OTPPurposeSignup OTPPurpose = "signup"
)

func (p OTPPurpose) IsValid() bool {
	return p == OTPPurposeSignin || p == OTPPurposeSignup
}

// ParseOTPPurpose converts raw strings into OTPPurpose.
func ParseOTPPurpose(value string) (OTPPurpose, bool) {
	purpose := OTPPurpose(strings.ToLower(strings.TrimSpace(value)))
	if !purpose.IsValid() {
		return "", false
	}
	return purpose, true
}

// OTPStartRequest asks for a verification code to be sent by SMS.
type OTPStartRequest struct {
	Phone   string `json:"phone" validate:"required"`
	Purpose string `json:"purpose" validate:"required"`
}

// OTPVerifyRequest exchanges a received code for a token pair.
type OTPVerifyRequest struct {
	Phone   string  `json:"phone" validate:"required"`
	Code    string  `json:"code" validate:"required"`
	Purpose string  `json:"purpose" validate:"required"`
	Name    *string `json:"name,omitempty"`
}

// LoginRequest carries admin email/password credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest rotates a refresh session using the expired access token's jti.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LoginResponse is returned by OTP verification and admin login.
type LoginResponse struct {
	AccessToken  string            `json:"access_token"`
	RefreshToken string            `json:"refresh_token"`
	User         *users.ProfileDTO `json:"user"`
}

// RefreshResponse carries the rotated token pair.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
