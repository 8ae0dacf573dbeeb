package models

// PurchasingGroup bundles several clinics. AssociatedClinics holds clinic ids,
// never names.
type PurchasingGroup struct {
	ID                string   `json:"id" yaml:"id"`
	Name              string   `json:"name" yaml:"name"`
	AssociatedClinics []string `json:"associatedClinics" yaml:"associatedClinics"`
	ContactPerson     string   `json:"contactPerson" yaml:"contactPerson"`
}

func (g PurchasingGroup) RecordID() string { return g.ID }

// WithID returns a copy with its own clinic slice, never nil.
func (g PurchasingGroup) WithID(id string) PurchasingGroup {
	g.ID = id
	clinics := make([]string, len(g.AssociatedClinics))
	copy(clinics, g.AssociatedClinics)
	g.AssociatedClinics = clinics
	return g
}
