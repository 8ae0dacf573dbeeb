package section

import (
	"mediio-admin/internal/resolver"
)

// Column is a typed table column. Value renders the cell, substituting
// foreign keys through the resolver.
type Column[T any] struct {
	Key   string
	Title string
	Width string
	Value func(rec T, r *resolver.Clinics) string
}

// Field is a typed form field.
type Field[T any] struct {
	Key         string
	Label       string
	Placeholder string
	Multiline   bool
	// ClinicList marks a comma-separated list of clinic names.
	ClinicList bool
	// Required fields must not be blank; Message is reported otherwise.
	Required bool
	Message  string
	Get      func(rec T, r *resolver.Clinics) string
	Set      func(rec *T, value string, r *resolver.Clinics)
}

// Definition configures a Controller for one entity type.
type Definition[T any] struct {
	Name  string
	Title string
	// AddTitle and EditTitle head the form.
	AddTitle  string
	EditTitle string
	// DeleteTitle and DeleteMessage head the confirmation.
	DeleteTitle   string
	DeleteMessage string

	Blank   func() T
	Label   func(rec T) string
	Columns []Column[T]
	Fields  []Field[T]
	// Search returns the texts a query is matched against.
	Search func(rec T, r *resolver.Clinics) []string
}
