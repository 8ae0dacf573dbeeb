package models

type Clinic struct {
	ID            string `json:"id" yaml:"id"`
	Name          string `json:"name" yaml:"name"`
	Address       string `json:"address" yaml:"address"`
	ContactPerson string `json:"contactPerson" yaml:"contactPerson"`
}

func (c Clinic) RecordID() string { return c.ID }

func (c Clinic) WithID(id string) Clinic {
	c.ID = id
	return c
}
