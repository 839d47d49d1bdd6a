// Package accounts owns account records and their salted password digests.
package accounts

import (
	"time"

	"github.com/agrogest/agrogest/internal/platform/httpx"
	"github.com/agrogest/agrogest/internal/rbac"
)

var (
	// ErrDuplicateIdentity indicates the username is already taken.
	ErrDuplicateIdentity = httpx.NewError(httpx.ErrDuplicate, "username already exists")
	// ErrNotFound indicates no account exists for the username.
	ErrNotFound = httpx.NewError(httpx.ErrNotFound, "account not found")
	// ErrInvalidCredentials is the one failure returned for any rejected login.
	ErrInvalidCredentials = httpx.NewError(httpx.ErrUnauthorized, "invalid credentials")
	// ErrAccountInactive is returned by ResetPassword for a deactivated account.
	ErrAccountInactive = httpx.NewError(httpx.ErrValidation, "account is inactive")
)

// Account is an identity record.
type Account struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	Role         rbac.Role  `json:"role"`
	PasswordHash string     `json:"-"`
	Salt         string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	Active       bool       `json:"active"`
}

// NewAccount carries the input of CreateAccount.
type NewAccount struct {
	Username string    `json:"username" validate:"required,min=3,max=64"`
	Email    string    `json:"email" validate:"required,email,max=254"`
	Password string    `json:"password" validate:"required,min=8,max=128"`
	Role     rbac.Role `json:"role" validate:"required,oneof=admin manager agronomist operator viewer"`
}

// EnsureResult reports what EnsureAccount did.
type EnsureResult int

const (
	// Created means a new account was inserted.
	Created EnsureResult = iota + 1
	// AlreadyExists means an account with the username was already present.
	AlreadyExists
)

func (r EnsureResult) String() string {
	switch r {
	case Created:
		return "created"
	case AlreadyExists:
		return "already_exists"
	default:
		return "unknown"
	}
}
