// Package resolver translates clinic ids to display names and back.
//
// Resolution is forgiving: an id that matches no clinic is shown as-is and
// a name that matches no clinic (or several) is kept as raw text. Referential
// integrity is not enforced.
package resolver

import (
	"strings"

	"mediio-admin/internal/models"
)

// Clinics is an immutable lookup over a snapshot of the clinic collection.
type Clinics struct {
	names map[string]string
	ids   map[string][]string
}

// New indexes the given clinics. The slice is not retained.
func New(clinics []models.Clinic) *Clinics {
	r := &Clinics{
		names: make(map[string]string, len(clinics)),
		ids:   make(map[string][]string, len(clinics)),
	}
	for _, c := range clinics {
		if _, dup := r.names[c.ID]; !dup {
			r.names[c.ID] = c.Name
		}
		r.ids[c.Name] = append(r.ids[c.Name], c.ID)
	}
	return r
}

// Name returns the clinic name for id, or id itself if no clinic has it.
func (r *Clinics) Name(id string) string {
	if name, ok := r.names[id]; ok {
		return name
	}
	return id
}

// Lookup returns the id of the single clinic called name.
func (r *Clinics) Lookup(name string) (string, bool) {
	ids := r.ids[name]
	if len(ids) != 1 {
		return "", false
	}
	return ids[0], true
}

// ID returns the id of the single clinic called name, or name unchanged.
func (r *Clinics) ID(name string) string {
	if id, ok := r.Lookup(name); ok {
		return id
	}
	return name
}

// Names maps every id through Name.
func (r *Clinics) Names(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = r.Name(id)
	}
	return out
}

// FormatList renders ids as the comma-separated text used in edit forms.
func (r *Clinics) FormatList(ids []string) string {
	return strings.Join(r.Names(ids), ", ")
}

// ParseList turns comma-separated clinic names into ids. Names that do not
// resolve to exactly one clinic are dropped.
func (r *Clinics) ParseList(text string) []string {
	ids := []string{}
	for _, part := range strings.Split(text, ",") {
		if id, ok := r.Lookup(strings.TrimSpace(part)); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
