// Package contact holds the contact record, its validation rules and the
// service that performs CRUD and search over the persisted collection.
package contact

import (
	"fmt"
	"strings"
)

// Contact is one address book record. The JSON keys are the persisted
// file format and must not change.
type Contact struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// Field names a searchable contact field.
type Field string

const (
	FieldName  Field = "name"
	FieldEmail Field = "email"
	FieldPhone Field = "phone"
)

// SearchFields lists the searchable fields in menu order.
var SearchFields = []Field{FieldName, FieldEmail, FieldPhone}

// ParseField maps a user supplied field name to a Field.
func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FieldName, FieldEmail, FieldPhone:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q (must be name, email or phone)", ErrInvalidField, s)
}

// Value returns the contact's value for f.
func (c Contact) Value(f Field) string {
	switch f {
	case FieldName:
		return c.Name
	case FieldEmail:
		return c.Email
	case FieldPhone:
		return c.Phone
	}
	return ""
}

// Header is the column order used by every tabular export.
var Header = []string{"Name", "Phone", "Email", "Address"}

// Row returns the contact's values in Header order.
func (c Contact) Row() []string {
	return []string{c.Name, c.Phone, c.Email, c.Address}
}

func (c Contact) String() string {
	return fmt.Sprintf("Name: %s, Phone: %s, Email: %s, Address: %s", c.Name, c.Phone, c.Email, c.Address)
}
