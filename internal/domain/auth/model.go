// Package auth provides operator accounts and access tokens.
//
// An operator is the unit of tenancy: the user id doubles as the owner id
// of every row the operator creates.
package auth

import (
	"net/mail"
	"strings"
	"time"

	"docengine/internal/core/apperror"
	"docengine/internal/core/entity"
	"docengine/internal/core/id"
)

// User represents an operator account.
type User struct {
	ID           id.ID      `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"fullName"`
	IsActive     bool       `db:"is_active" json:"isActive"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`

	entity.Timestamps
}

// NewUser creates an active user.
func NewUser(email, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		ID:           id.New(),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		IsActive:     true,
		Timestamps:   entity.Timestamps{CreatedAt: now, UpdatedAt: now},
	}
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CanLogin checks if user can login.
func (u *User) CanLogin() error {
	if !u.IsActive {
		return apperror.NewAuthRequired("account is disabled")
	}
	return nil
}

// RecordSuccessfulLogin stamps the login time.
func (u *User) RecordSuccessfulLogin() {
	now := time.Now().UTC()
	u.LastLoginAt = &now
	u.Touch()
}

// RegisterRequest holds the registration form.
type RegisterRequest struct {
	Email    string
	Password string
	FullName string
}

// validate checks the form against minLength.
func (r RegisterRequest) validate(minLength int) error {
	fields := map[string]string{}
	if _, err := mail.ParseAddress(strings.TrimSpace(r.Email)); err != nil {
		fields["email"] = "a valid email is required"
	}
	if len(r.Password) < minLength {
		fields["password"] = "password is too short"
	}
	if len(fields) > 0 {
		return apperror.NewFieldValidation(fields)
	}
	return nil
}

// Credentials holds login input.
type Credentials struct {
	Email    string
	Password string
}

// Token is an issued access token.
type Token struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
