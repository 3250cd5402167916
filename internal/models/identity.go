package models

import (
	"github.com/go-playground/validator/v10"
)

// Admin is a bootstrap-created administrator account. Never mutated or
// deleted through the modeled flows.
type Admin struct {
	ID           int64  `db:"id" json:"id"`
	Email        string `db:"email" json:"email" validate:"required,email"`
	PasswordHash string `db:"password_hash" json:"-"`
}

// Staff is a judging account bound to exactly one category for its lifetime.
type Staff struct {
	ID           int64    `db:"id" json:"id"`
	Name         string   `db:"name" json:"name" validate:"required,max=100"`
	Email        string   `db:"email" json:"email" validate:"required,email"`
	PasswordHash string   `db:"password_hash" json:"-"`
	Category     Category `db:"category" json:"category" validate:"required"`
	CreatedAt    int64    `db:"created_at" json:"created_at"`
}

func (s *Staff) Validate() error {
	if !s.Category.Valid() {
		return ErrInvalidCategory
	}
	validate := validator.New()
	return validate.Struct(s)
}

// PrincipalKind discriminates the two disjoint account kinds.
type PrincipalKind string

const (
	PrincipalAdmin PrincipalKind = "admin"
	PrincipalStaff PrincipalKind = "staff"
)

// Principal is the authenticated caller passed explicitly into core
// operations. Category is set only for staff.
type Principal struct {
	Kind     PrincipalKind `json:"kind"`
	ID       int64         `json:"id"`
	Email    string        `json:"email"`
	Category Category      `json:"category,omitempty"`
}

func (p Principal) IsAdmin() bool {
	return p.Kind == PrincipalAdmin
}

func (p Principal) IsStaff() bool {
	return p.Kind == PrincipalStaff
}
