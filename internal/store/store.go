// Package store holds the persisted entity collections. A Store owns one
// ordered collection, mutates it only through Add, Update and Delete and
// writes the whole collection to durable storage after every change.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"mediio-admin/internal/models"
	"mediio-admin/internal/persist"
)

var (
	// ErrPersist wraps storage write failures. The in-memory collection has
	// already been updated when it is returned.
	ErrPersist = errors.New("store: persist failed")
	// ErrLoad wraps failures reading the persisted snapshot at startup.
	ErrLoad = errors.New("store: load failed")
	// errNotLoaded is reported by writes to a store whose snapshot could not
	// be read, so the unread snapshot is never overwritten.
	errNotLoaded = errors.New("snapshot was not loaded, refusing to overwrite it")
)

// snapshotVersion is written into every envelope.
const snapshotVersion = 0

// Mutation names reported to an Observer.
const (
	OpAdd    = "add"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Observer is notified about mutations and persistence failures.
type Observer interface {
	Mutated(store, op string)
	PersistFailed(store string)
}

type options struct {
	observer Observer
	log      logrus.FieldLogger
}

type Option func(*options)

// WithObserver reports mutations to o.
func WithObserver(o Observer) Option {
	return func(opts *options) { opts.observer = o }
}

// WithLogger sets the logger used for persistence warnings.
func WithLogger(l logrus.FieldLogger) Option {
	return func(opts *options) { opts.log = l }
}

// envelope is the persisted layout: {"version":0,"state":{"<field>":[...]}}.
type envelope struct {
	Version int                        `json:"version"`
	State   map[string]json.RawMessage `json:"state"`
}

// Store is a persisted, insertion-ordered collection of T.
// It is safe for concurrent use.
type Store[T models.Identifiable[T]] struct {
	mu      sync.RWMutex
	key     string
	field   string
	items   []T
	storage persist.Storage
	opts    options
	// loadFailed is set when the snapshot exists but could not be read.
	loadFailed bool
}

// New loads the collection saved under key. A key that was never written
// yields an empty store. If the snapshot cannot be read, New still returns
// a usable empty store together with an error wrapping ErrLoad. Such a
// store keeps changes in memory only; every write reports ErrPersist.
func New[T models.Identifiable[T]](ctx context.Context, key, field string, storage persist.Storage, opts ...Option) (*Store[T], error) {
	s := &Store[T]{
		key:     key,
		field:   field,
		items:   []T{},
		storage: storage,
	}
	for _, o := range opts {
		o(&s.opts)
	}
	if s.opts.log == nil {
		s.opts.log = logrus.StandardLogger()
	}
	s.opts.log = s.opts.log.WithField("store", key)

	items, err := s.load(ctx)
	if err != nil {
		s.loadFailed = true
		return s, fmt.Errorf("%w: %s: %v", ErrLoad, key, err)
	}
	s.items = items
	return s, nil
}

func (s *Store[T]) load(ctx context.Context) ([]T, error) {
	data, err := s.storage.Load(ctx, s.key)
	if errors.Is(err, persist.ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	raw, ok := env.State[s.field]
	if !ok || string(raw) == "null" {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.field, err)
	}
	// WithID normalises nil slices left by missing or null list fields
	for i, it := range items {
		items[i] = it.WithID(it.RecordID())
	}
	return items, nil
}

// Key is the storage key the collection is persisted under.
func (s *Store[T]) Key() string { return s.key }

// LoadFailed reports whether the persisted snapshot could not be read.
func (s *Store[T]) LoadFailed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadFailed
}

// List returns a copy of the collection in insertion order.
func (s *Store[T]) List() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.items))
	for i, it := range s.items {
		out[i] = it.WithID(it.RecordID())
	}
	return out
}

// Get returns the record with id.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.RecordID() == id {
			return it.WithID(id), true
		}
	}
	var zero T
	return zero, false
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Add appends rec. The caller is responsible for id uniqueness.
func (s *Store[T]) Add(ctx context.Context, rec T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]T, len(s.items), len(s.items)+1)
	copy(next, s.items)
	next = append(next, rec.WithID(rec.RecordID()))
	return s.commit(ctx, next, OpAdd)
}

// Update replaces the record with id by rec, keeping id even when rec.ID
// differs. It reports false without writing if id is unknown.
func (s *Store[T]) Update(ctx context.Context, id string, rec T) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return false, nil
	}
	next := make([]T, len(s.items))
	copy(next, s.items)
	next[idx] = rec.WithID(id)
	return true, s.commit(ctx, next, OpUpdate)
}

// Delete removes the record with id. It reports false without writing if id
// is unknown.
func (s *Store[T]) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(id) < 0 {
		return false, nil
	}
	next := make([]T, 0, len(s.items)-1)
	for _, it := range s.items {
		if it.RecordID() != id {
			next = append(next, it)
		}
	}
	return true, s.commit(ctx, next, OpDelete)
}

func (s *Store[T]) indexOf(id string) int {
	for i, it := range s.items {
		if it.RecordID() == id {
			return i
		}
	}
	return -1
}

// commit installs next and writes it out. Must hold s.mu.
func (s *Store[T]) commit(ctx context.Context, next []T, op string) error {
	s.items = next
	if s.opts.observer != nil {
		s.opts.observer.Mutated(s.key, op)
	}
	if err := s.persist(ctx); err != nil {
		if s.opts.observer != nil {
			s.opts.observer.PersistFailed(s.key)
		}
		s.opts.log.WithError(err).WithField("op", op).Warn("persisting snapshot failed, keeping in-memory state")
		return fmt.Errorf("%w: %s: %v", ErrPersist, s.key, err)
	}
	return nil
}

func (s *Store[T]) persist(ctx context.Context) error {
	if s.loadFailed {
		return errNotLoaded
	}
	raw, err := json.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.field, err)
	}
	data, err := json.Marshal(envelope{
		Version: snapshotVersion,
		State:   map[string]json.RawMessage{s.field: raw},
	})
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	return s.storage.Save(ctx, s.key, data)
}
