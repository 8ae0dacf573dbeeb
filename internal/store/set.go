package store

import (
	"context"

	"github.com/sirupsen/logrus"

	"mediio-admin/internal/models"
	"mediio-admin/internal/persist"
)

// Storage keys and collection fields of the persisted snapshots.
const (
	ClinicsKey          = "mediio-clinics-storage"
	PurchasingGroupsKey = "mediio-purchasing-groups-storage"
	SuppliersKey        = "mediio-suppliers-storage"
	CustomersKey        = "mediio-customers-storage"

	ClinicsField          = "clinics"
	PurchasingGroupsField = "purchasingGroups"
	SuppliersField        = "suppliers"
	CustomersField        = "customers"
)

// Set bundles the four entity stores.
type Set struct {
	Clinics          *Store[models.Clinic]
	PurchasingGroups *Store[models.PurchasingGroup]
	Suppliers        *Store[models.Supplier]
	Customers        *Store[models.Customer]
}

// OpenSet loads all four stores from storage. A store whose snapshot cannot
// be read is logged and starts empty; OpenSet itself never fails.
func OpenSet(ctx context.Context, storage persist.Storage, log logrus.FieldLogger, opts ...Option) *Set {
	opts = append([]Option{WithLogger(log)}, opts...)
	set := &Set{}

	var err error
	set.Clinics, err = New[models.Clinic](ctx, ClinicsKey, ClinicsField, storage, opts...)
	warnLoad(log, err)
	set.PurchasingGroups, err = New[models.PurchasingGroup](ctx, PurchasingGroupsKey, PurchasingGroupsField, storage, opts...)
	warnLoad(log, err)
	set.Suppliers, err = New[models.Supplier](ctx, SuppliersKey, SuppliersField, storage, opts...)
	warnLoad(log, err)
	set.Customers, err = New[models.Customer](ctx, CustomersKey, CustomersField, storage, opts...)
	warnLoad(log, err)

	return set
}

func warnLoad(log logrus.FieldLogger, err error) {
	if err != nil {
		log.WithError(err).Warn("starting with empty collection")
	}
}
