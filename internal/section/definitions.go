package section

import (
	"mediio-admin/internal/models"
	"mediio-admin/internal/resolver"
)

// Section names, in dashboard order.
const (
	Clinics          = "clinics"
	PurchasingGroups = "purchasing-groups"
	Suppliers        = "suppliers"
	Customers        = "customers"
)

const (
	msgNameRequired    = "Name ist erforderlich"
	msgAddressRequired = "Adresse ist erforderlich"

	titleName          = "Name"
	titleContactPerson = "Ansprechpartner"
)

func nameField[T any](get func(T) string, set func(*T, string), placeholder string) Field[T] {
	return Field[T]{
		Key:         "name",
		Label:       titleName,
		Placeholder: placeholder,
		Required:    true,
		Message:     msgNameRequired,
		Get:         func(rec T, _ *resolver.Clinics) string { return get(rec) },
		Set:         func(rec *T, v string, _ *resolver.Clinics) { set(rec, v) },
	}
}

func contactField[T any](get func(T) string, set func(*T, string)) Field[T] {
	return Field[T]{
		Key:         "contactPerson",
		Label:       titleContactPerson,
		Placeholder: "Name des Ansprechpartners",
		Get:         func(rec T, _ *resolver.Clinics) string { return get(rec) },
		Set:         func(rec *T, v string, _ *resolver.Clinics) { set(rec, v) },
	}
}

func plainColumn[T any](key, title, width string, get func(T) string) Column[T] {
	return Column[T]{
		Key:   key,
		Title: title,
		Width: width,
		Value: func(rec T, _ *resolver.Clinics) string { return get(rec) },
	}
}

func ClinicDefinition() Definition[models.Clinic] {
	name := func(c models.Clinic) string { return c.Name }
	address := func(c models.Clinic) string { return c.Address }
	contact := func(c models.Clinic) string { return c.ContactPerson }
	return Definition[models.Clinic]{
		Name:          Clinics,
		Title:         "Kliniken",
		AddTitle:      "Neue Klinik hinzufügen",
		EditTitle:     "Klinik bearbeiten",
		DeleteTitle:   "Klinik löschen",
		DeleteMessage: "Möchten Sie diese Klinik wirklich löschen?",
		Blank:         func() models.Clinic { return models.Clinic{} },
		Label:         name,
		Columns: []Column[models.Clinic]{
			plainColumn("name", titleName, "30%", name),
			plainColumn("address", "Adresse", "40%", address),
			plainColumn("contactPerson", titleContactPerson, "30%", contact),
		},
		Fields: []Field[models.Clinic]{
			nameField(name, func(c *models.Clinic, v string) { c.Name = v }, "Name der Klinik"),
			{
				Key:         "address",
				Label:       "Adresse",
				Placeholder: "Adresse der Klinik",
				Required:    true,
				Message:     msgAddressRequired,
				Get:         func(c models.Clinic, _ *resolver.Clinics) string { return c.Address },
				Set:         func(c *models.Clinic, v string, _ *resolver.Clinics) { c.Address = v },
			},
			contactField(contact, func(c *models.Clinic, v string) { c.ContactPerson = v }),
		},
		Search: func(c models.Clinic, _ *resolver.Clinics) []string {
			return []string{c.Name, c.Address, c.ContactPerson}
		},
	}
}

func PurchasingGroupDefinition() Definition[models.PurchasingGroup] {
	name := func(g models.PurchasingGroup) string { return g.Name }
	contact := func(g models.PurchasingGroup) string { return g.ContactPerson }
	clinics := func(g models.PurchasingGroup, r *resolver.Clinics) string { return r.FormatList(g.AssociatedClinics) }
	return Definition[models.PurchasingGroup]{
		Name:          PurchasingGroups,
		Title:         "Einkaufsgemeinschaften",
		AddTitle:      "Neue Einkaufsgemeinschaft hinzufügen",
		EditTitle:     "Einkaufsgemeinschaft bearbeiten",
		DeleteTitle:   "Einkaufsgemeinschaft löschen",
		DeleteMessage: "Möchten Sie diese Einkaufsgemeinschaft wirklich löschen?",
		Blank:         func() models.PurchasingGroup { return models.PurchasingGroup{AssociatedClinics: []string{}} },
		Label:         name,
		Columns: []Column[models.PurchasingGroup]{
			plainColumn("name", titleName, "30%", name),
			{Key: "associatedClinics", Title: "Zugehörige Kliniken", Width: "40%", Value: clinics},
			plainColumn("contactPerson", titleContactPerson, "30%", contact),
		},
		Fields: []Field[models.PurchasingGroup]{
			nameField(name, func(g *models.PurchasingGroup, v string) { g.Name = v }, "Name der Einkaufsgemeinschaft"),
			contactField(contact, func(g *models.PurchasingGroup, v string) { g.ContactPerson = v }),
			{
				Key:         "associatedClinics",
				Label:       "Zugehörige Kliniken (durch Komma getrennt)",
				Placeholder: "Kliniken eingeben (durch Komma getrennt)",
				Multiline:   true,
				ClinicList:  true,
				Get:         clinics,
				Set: func(g *models.PurchasingGroup, v string, r *resolver.Clinics) {
					g.AssociatedClinics = r.ParseList(v)
				},
			},
		},
		Search: func(g models.PurchasingGroup, r *resolver.Clinics) []string {
			return append([]string{g.Name, g.ContactPerson}, r.Names(g.AssociatedClinics)...)
		},
	}
}

func SupplierDefinition() Definition[models.Supplier] {
	name := func(s models.Supplier) string { return s.Name }
	products := func(s models.Supplier) string { return s.OfferedProducts }
	contact := func(s models.Supplier) string { return s.ContactPerson }
	return Definition[models.Supplier]{
		Name:          Suppliers,
		Title:         "Lieferanten",
		AddTitle:      "Neuen Lieferanten hinzufügen",
		EditTitle:     "Lieferant bearbeiten",
		DeleteTitle:   "Lieferant löschen",
		DeleteMessage: "Möchten Sie diesen Lieferanten wirklich löschen?",
		Blank:         func() models.Supplier { return models.Supplier{} },
		Label:         name,
		Columns: []Column[models.Supplier]{
			plainColumn("name", titleName, "30%", name),
			plainColumn("offeredProducts", "Angebotene Produkte", "40%", products),
			plainColumn("contactPerson", titleContactPerson, "30%", contact),
		},
		Fields: []Field[models.Supplier]{
			nameField(name, func(s *models.Supplier, v string) { s.Name = v }, "Name des Lieferanten"),
			{
				Key:         "offeredProducts",
				Label:       "Angebotene Produkte",
				Placeholder: "Produkte des Lieferanten",
				Multiline:   true,
				Get:         func(s models.Supplier, _ *resolver.Clinics) string { return s.OfferedProducts },
				Set:         func(s *models.Supplier, v string, _ *resolver.Clinics) { s.OfferedProducts = v },
			},
			contactField(contact, func(s *models.Supplier, v string) { s.ContactPerson = v }),
		},
		Search: func(s models.Supplier, _ *resolver.Clinics) []string {
			return []string{s.Name, s.OfferedProducts, s.ContactPerson}
		},
	}
}

func CustomerDefinition() Definition[models.Customer] {
	name := func(c models.Customer) string { return c.Name }
	contact := func(c models.Customer) string { return c.ContactPerson }
	affiliation := func(c models.Customer, r *resolver.Clinics) string { return r.Name(c.ClinicAffiliation) }
	return Definition[models.Customer]{
		Name:          Customers,
		Title:         "Kunden",
		AddTitle:      "Neuen Kunden hinzufügen",
		EditTitle:     "Kunde bearbeiten",
		DeleteTitle:   "Kunde löschen",
		DeleteMessage: "Möchten Sie diesen Kunden wirklich löschen?",
		Blank:         func() models.Customer { return models.Customer{} },
		Label:         name,
		Columns: []Column[models.Customer]{
			plainColumn("name", titleName, "30%", name),
			{Key: "clinicAffiliation", Title: "Klinikzugehörigkeit", Width: "40%", Value: affiliation},
			plainColumn("contactPerson", titleContactPerson, "30%", contact),
		},
		Fields: []Field[models.Customer]{
			nameField(name, func(c *models.Customer, v string) { c.Name = v }, "Name des Kunden"),
			{
				Key:         "clinicAffiliation",
				Label:       "Klinikzugehörigkeit",
				Placeholder: "Zugehörige Klinik",
				Get:         affiliation,
				Set: func(c *models.Customer, v string, r *resolver.Clinics) {
					c.ClinicAffiliation = r.ID(v)
				},
			},
			contactField(contact, func(c *models.Customer, v string) { c.ContactPerson = v }),
		},
		Search: func(c models.Customer, r *resolver.Clinics) []string {
			return []string{c.Name, c.ClinicAffiliation, r.Name(c.ClinicAffiliation), c.ContactPerson}
		},
	}
}
