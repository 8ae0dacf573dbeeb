package models

// Record is implemented by every entity kept in a store.
type Record interface {
	RecordID() string
}

// Identifiable records can be copied under a different id. Stores use it to
// pin the id on update regardless of what the replacement carries.
type Identifiable[T any] interface {
	Record
	WithID(id string) T
}
