package models

// Customer optionally belongs to a clinic. ClinicAffiliation is the clinic id,
// or free text when the entered name matched no clinic. Empty means unset.
type Customer struct {
	ID                string `json:"id" yaml:"id"`
	Name              string `json:"name" yaml:"name"`
	ClinicAffiliation string `json:"clinicAffiliation" yaml:"clinicAffiliation"`
	ContactPerson     string `json:"contactPerson" yaml:"contactPerson"`
}

func (c Customer) RecordID() string { return c.ID }

func (c Customer) WithID(id string) Customer {
	c.ID = id
	return c
}
