// Package section implements the per-entity admin sections: search over the
// collection, the add/edit form with validation and the confirmed delete.
//
// A section is a small state machine:
//
//	Browsing -> FormOpen -> Browsing          (save or cancel)
//	Browsing -> ConfirmingDelete -> Browsing  (confirm or cancel)
package section

import (
	"context"
	"errors"
)

var (
	ErrInvalidState = errors.New("section: operation not allowed in current state")
	ErrNotFound     = errors.New("section: record not found")
	ErrUnknownField = errors.New("section: unknown field")
	ErrValidation   = errors.New("section: validation failed")
)

type State int

const (
	Browsing State = iota
	FormOpen
	ConfirmingDelete
)

func (s State) String() string {
	switch s {
	case Browsing:
		return "browsing"
	case FormOpen:
		return "form_open"
	case ConfirmingDelete:
		return "confirming_delete"
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Errors maps form field keys to messages.
type Errors map[string]string

// ColumnInfo describes a table column for presentation.
type ColumnInfo struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Width string `json:"width"`
}

// FieldInfo describes a form field for presentation.
type FieldInfo struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder,omitempty"`
	Required    bool   `json:"required"`
	Multiline   bool   `json:"multiline,omitempty"`
	ClinicList  bool   `json:"clinicList,omitempty"`
}

// Row is one table row with foreign keys already replaced by display names.
type Row struct {
	ID     string            `json:"id"`
	Values map[string]string `json:"values"`
}

// FormView is the current form: what is being edited, its values and the
// errors from the last save attempt.
type FormView struct {
	State   State             `json:"state"`
	Title   string            `json:"title,omitempty"`
	Editing string            `json:"editing,omitempty"`
	Values  map[string]string `json:"values,omitempty"`
	Errors  Errors            `json:"errors,omitempty"`
}

// Prompt is shown while a delete awaits confirmation.
type Prompt struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// SaveResult reports the id written by Save, or the validation errors that
// blocked it.
type SaveResult struct {
	ID      string `json:"id,omitempty"`
	Created bool   `json:"created"`
	Errors  Errors `json:"errors,omitempty"`
}

// Section is the type-erased view of a Controller used by the HTTP layer and
// the workbook import/export.
type Section interface {
	Name() string
	Title() string
	Columns() []ColumnInfo
	Fields() []FieldInfo

	SetQuery(q string)
	Query() string
	Rows() []Row
	AllRows() []Row
	Record(id string) (any, bool)

	State() State
	OpenAdd() error
	OpenEdit(id string) error
	SetField(key, value string) error
	Form() FormView
	Validate() Errors
	Save(ctx context.Context) (SaveResult, error)
	Cancel()

	RequestDelete(id string) (Prompt, error)
	Pending() (Prompt, bool)
	ConfirmDelete(ctx context.Context) error
	CancelDelete()
}
