package models

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidCategory = errors.New("unknown category")

// Participant is a registered entrant. ExternalID is the natural key used
// for all lookups; the database enforces its uniqueness. Category may be
// empty when the upload carried no recognizable track label.
type Participant struct {
	ID          int64    `db:"id" json:"id"`
	ExternalID  string   `db:"external_id" json:"external_id" validate:"required,max=50"`
	Name        string   `db:"name" json:"name" validate:"required,max=100"`
	Affiliation string   `db:"affiliation" json:"affiliation"`
	Phone       string   `db:"phone" json:"phone"`
	Category    Category `db:"category" json:"category,omitempty"`
	QRCode      string   `db:"qr_code" json:"qr_code,omitempty"` // base64 PNG
}

func (p *Participant) Validate() error {
	if p.Category != "" && !p.Category.Valid() {
		return ErrInvalidCategory
	}
	validate := validator.New()
	return validate.Struct(p)
}
