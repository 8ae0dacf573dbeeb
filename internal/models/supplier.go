package models

type Supplier struct {
	ID              string `json:"id" yaml:"id"`
	Name            string `json:"name" yaml:"name"`
	OfferedProducts string `json:"offeredProducts" yaml:"offeredProducts"`
	ContactPerson   string `json:"contactPerson" yaml:"contactPerson"`
}

func (s Supplier) RecordID() string { return s.ID }

func (s Supplier) WithID(id string) Supplier {
	s.ID = id
	return s
}
