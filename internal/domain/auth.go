package domain

import (
	"fmt"
	"net/mail"
	"strings"
)

type UserID string

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleMember  Role = "member"
)

type User struct {
	ID    UserID `json:"id" yaml:"id"`
	Email string `json:"email" yaml:"email"`
	Name  string `json:"name" yaml:"name"`
	Role  Role   `json:"role" yaml:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}

	return nil
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	// Role is left to the server default when empty.
	Role Role `json:"role,omitempty"`
}

func (r RegisterRequest) Validate() error {
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name is required")
	}

	return nil
}

type AuthResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenPair is the body returned by the refresh endpoint.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func validateEmail(email string) error {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return fmt.Errorf("email is required")
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return fmt.Errorf("invalid email %q", email)
	}

	return nil
}
