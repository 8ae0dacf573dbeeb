package section

import (
	"mediio-admin/internal/models"
	"mediio-admin/internal/store"
)

// Dashboard holds the four sections in display order.
type Dashboard struct {
	Clinics          *Controller[models.Clinic]
	PurchasingGroups *Controller[models.PurchasingGroup]
	Suppliers        *Controller[models.Supplier]
	Customers        *Controller[models.Customer]

	ordered []Section
}

// NewDashboard wires one controller per store. Every section resolves
// clinic references against set.Clinics.
func NewDashboard(set *store.Set, opts ...Option) *Dashboard {
	d := &Dashboard{
		Clinics:          NewController(ClinicDefinition(), set.Clinics, set.Clinics, opts...),
		PurchasingGroups: NewController(PurchasingGroupDefinition(), set.PurchasingGroups, set.Clinics, opts...),
		Suppliers:        NewController(SupplierDefinition(), set.Suppliers, set.Clinics, opts...),
		Customers:        NewController(CustomerDefinition(), set.Customers, set.Clinics, opts...),
	}
	d.ordered = []Section{d.Clinics, d.PurchasingGroups, d.Suppliers, d.Customers}
	return d
}

// Sections returns Clinics, PurchasingGroups, Suppliers, Customers.
func (d *Dashboard) Sections() []Section {
	out := make([]Section, len(d.ordered))
	copy(out, d.ordered)
	return out
}

// Section looks a section up by name or title.
func (d *Dashboard) Section(name string) (Section, bool) {
	for _, s := range d.ordered {
		if s.Name() == name || s.Title() == name {
			return s, true
		}
	}
	return nil, false
}
