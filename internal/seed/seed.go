// Package seed fills empty stores with sample records on first start.
//
// Seeding is keyed on emptiness, not on a "seeded" flag: a store whose
// records were all deleted is seeded again on the next start. A store whose
// snapshot could not be read is never seeded.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"mediio-admin/internal/models"
	"mediio-admin/internal/store"
)

// Data is the seed set for all four stores.
type Data struct {
	Clinics          []models.Clinic          `yaml:"clinics"`
	PurchasingGroups []models.PurchasingGroup `yaml:"purchasingGroups"`
	Suppliers        []models.Supplier        `yaml:"suppliers"`
	Customers        []models.Customer        `yaml:"customers"`
}

// Report counts the records inserted per store.
type Report struct {
	Clinics          int `json:"clinics"`
	PurchasingGroups int `json:"purchasingGroups"`
	Suppliers        int `json:"suppliers"`
	Customers        int `json:"customers"`
}

// Default returns the built-in sample data.
func Default() Data {
	return Data{
		Clinics: []models.Clinic{
			{
				ID:            "c1",
				Name:          "Universitätsklinikum Berlin",
				Address:       "Charitéplatz 1, 10117 Berlin",
				ContactPerson: "Dr. Müller",
			},
			{
				ID:            "c2",
				Name:          "Klinikum München-Schwabing",
				Address:       "Kölner Platz 1, 80804 München",
				ContactPerson: "Prof. Schmidt",
			},
		},
		PurchasingGroups: []models.PurchasingGroup{
			{
				ID:                "pg1",
				Name:              "Einkaufsverbund Nord",
				AssociatedClinics: []string{"c1"},
				ContactPerson:     "Frau Weber",
			},
		},
		Suppliers: []models.Supplier{
			{
				ID:              "s1",
				Name:            "MedTech GmbH",
				OfferedProducts: "Medizinische Geräte, Verbrauchsmaterialien",
				ContactPerson:   "Herr Schulz",
			},
		},
		Customers: []models.Customer{
			{
				ID:                "cu1",
				Name:              "Praxis Dr. Fischer",
				ClinicAffiliation: "c2",
				ContactPerson:     "Dr. Fischer",
			},
		},
	}
}

// LoadFile reads seed data from a YAML file.
func LoadFile(path string) (Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Data{}, fmt.Errorf("read seed file: %w", err)
	}
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return Data{}, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	for i, g := range d.PurchasingGroups {
		if g.AssociatedClinics == nil {
			d.PurchasingGroups[i].AssociatedClinics = []string{}
		}
	}
	return d, nil
}

// Run seeds every empty store in set. Persistence failures are collected
// and returned; the records stay in memory either way.
func Run(ctx context.Context, set *store.Set, data Data, log logrus.FieldLogger) (Report, error) {
	var (
		rep  Report
		errs []error
	)
	collect := func(n int, err error) int {
		if err != nil {
			errs = append(errs, err)
		}
		return n
	}
	rep.Clinics = collect(fill(ctx, set.Clinics, data.Clinics))
	rep.PurchasingGroups = collect(fill(ctx, set.PurchasingGroups, data.PurchasingGroups))
	rep.Suppliers = collect(fill(ctx, set.Suppliers, data.Suppliers))
	rep.Customers = collect(fill(ctx, set.Customers, data.Customers))

	log.WithFields(logrus.Fields{
		"clinics":           rep.Clinics,
		"purchasing_groups": rep.PurchasingGroups,
		"suppliers":         rep.Suppliers,
		"customers":         rep.Customers,
	}).Info("seeding finished")

	return rep, errors.Join(errs...)
}

func fill[T models.Identifiable[T]](ctx context.Context, s *store.Store[T], recs []T) (int, error) {
	// an unreadable snapshot may hold user data; seeding would hide it
	if s.LoadFailed() || s.Len() != 0 {
		return 0, nil
	}
	var errs []error
	for _, rec := range recs {
		if err := s.Add(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return len(recs), errors.Join(errs...)
}
