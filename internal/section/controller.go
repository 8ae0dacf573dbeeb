package section

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"mediio-admin/internal/models"
	"mediio-admin/internal/resolver"
)

// Repository is the store a Controller mutates.
type Repository[T any] interface {
	List() []T
	Get(id string) (T, bool)
	Add(ctx context.Context, rec T) error
	Update(ctx context.Context, id string, rec T) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ClinicSource provides the clinic snapshot used for id/name resolution.
type ClinicSource interface {
	List() []models.Clinic
}

// IDFunc generates ids for new records.
type IDFunc func() string

type options struct {
	newID IDFunc
	log   logrus.FieldLogger
}

type Option func(*options)

// WithIDFunc replaces the default uuid generator.
func WithIDFunc(f IDFunc) Option {
	return func(o *options) { o.newID = f }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) { o.log = l }
}

// Controller drives one section. All methods are safe for concurrent use;
// calls are serialised.
type Controller[T models.Identifiable[T]] struct {
	mu      sync.Mutex
	def     Definition[T]
	repo    Repository[T]
	clinics ClinicSource
	newID   IDFunc
	log     logrus.FieldLogger

	state   State
	query   string
	form    T
	editing string
	errors  Errors
	target  *Prompt
}

// NewController returns a controller in the Browsing state.
func NewController[T models.Identifiable[T]](def Definition[T], repo Repository[T], clinics ClinicSource, opts ...Option) *Controller[T] {
	o := options{newID: uuid.NewString, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Controller[T]{
		def:     def,
		repo:    repo,
		clinics: clinics,
		newID:   o.newID,
		log:     o.log.WithField("section", def.Name),
		form:    def.Blank(),
	}
}

func (c *Controller[T]) Name() string  { return c.def.Name }
func (c *Controller[T]) Title() string { return c.def.Title }

func (c *Controller[T]) Columns() []ColumnInfo {
	out := make([]ColumnInfo, len(c.def.Columns))
	for i, col := range c.def.Columns {
		out[i] = ColumnInfo{Key: col.Key, Title: col.Title, Width: col.Width}
	}
	return out
}

func (c *Controller[T]) Fields() []FieldInfo {
	out := make([]FieldInfo, len(c.def.Fields))
	for i, f := range c.def.Fields {
		out[i] = FieldInfo{Key: f.Key, Label: f.Label, Placeholder: f.Placeholder, Required: f.Required, Multiline: f.Multiline, ClinicList: f.ClinicList}
	}
	return out
}

// resolver takes a fresh clinic snapshot.
func (c *Controller[T]) resolver() *resolver.Clinics {
	return resolver.New(c.clinics.List())
}

func (c *Controller[T]) SetQuery(q string) {
	c.mu.Lock()
	c.query = q
	c.mu.Unlock()
}

func (c *Controller[T]) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Filtered returns the records matching the current query, in store order.
func (c *Controller[T]) Filtered() []T {
	c.mu.Lock()
	q := c.query
	c.mu.Unlock()
	return c.filter(q, c.resolver())
}

func (c *Controller[T]) filter(q string, r *resolver.Clinics) []T {
	all := c.repo.List()
	if q == "" {
		return all
	}
	needle := strings.ToLower(q)
	out := make([]T, 0, len(all))
	for _, rec := range all {
		for _, text := range c.def.Search(rec, r) {
			if strings.Contains(strings.ToLower(text), needle) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// Rows renders the filtered records with foreign keys resolved.
func (c *Controller[T]) Rows() []Row {
	c.mu.Lock()
	q := c.query
	c.mu.Unlock()
	return c.rows(q)
}

// AllRows renders every record, ignoring the search query.
func (c *Controller[T]) AllRows() []Row {
	return c.rows("")
}

func (c *Controller[T]) rows(q string) []Row {
	r := c.resolver()
	recs := c.filter(q, r)
	rows := make([]Row, len(recs))
	for i, rec := range recs {
		values := make(map[string]string, len(c.def.Columns))
		for _, col := range c.def.Columns {
			values[col.Key] = col.Value(rec, r)
		}
		rows[i] = Row{ID: rec.RecordID(), Values: values}
	}
	return rows
}

func (c *Controller[T]) Record(id string) (any, bool) {
	rec, ok := c.repo.Get(id)
	if !ok {
		return nil, false
	}
	return rec, true
}

func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// OpenAdd opens the form with a blank record. An open form must be saved
// or cancelled first.
func (c *Controller[T]) OpenAdd() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Browsing {
		return ErrInvalidState
	}
	c.state = FormOpen
	c.form = c.def.Blank()
	c.editing = ""
	c.errors = nil
	return nil
}

// OpenEdit opens the form with a copy of the record id.
func (c *Controller[T]) OpenEdit(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Browsing {
		return ErrInvalidState
	}
	rec, ok := c.repo.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	c.state = FormOpen
	c.form = rec
	c.editing = id
	c.errors = nil
	return nil
}

// SetField updates one form value, resolving clinic names to ids where the
// field holds a foreign key.
func (c *Controller[T]) SetField(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != FormOpen {
		return ErrInvalidState
	}
	for _, f := range c.def.Fields {
		if f.Key == key {
			f.Set(&c.form, value, c.resolver())
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownField, key)
}

func (c *Controller[T]) Form() FormView {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != FormOpen {
		return FormView{State: c.state}
	}
	r := c.resolver()
	values := make(map[string]string, len(c.def.Fields))
	for _, f := range c.def.Fields {
		values[f.Key] = f.Get(c.form, r)
	}
	title := c.def.AddTitle
	if c.editing != "" {
		title = c.def.EditTitle
	}
	return FormView{
		State:   c.state,
		Title:   title,
		Editing: c.editing,
		Values:  values,
		Errors:  c.errors,
	}
}

// Validate checks the open form without saving it.
func (c *Controller[T]) Validate() Errors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validate()
}

func (c *Controller[T]) validate() Errors {
	errs := Errors{}
	r := c.resolver()
	for _, f := range c.def.Fields {
		if f.Required && strings.TrimSpace(f.Get(c.form, r)) == "" {
			errs[f.Key] = f.Message
		}
	}
	return errs
}

// Save validates the form and writes it to the store. On validation failure
// the form stays open and ErrValidation is returned with the field errors.
// A persistence failure is logged and returned, but the section still goes
// back to Browsing since the in-memory store already holds the change.
func (c *Controller[T]) Save(ctx context.Context) (SaveResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != FormOpen {
		return SaveResult{}, ErrInvalidState
	}
	if errs := c.validate(); len(errs) > 0 {
		c.errors = errs
		return SaveResult{Errors: errs}, ErrValidation
	}

	var (
		res SaveResult
		err error
	)
	if c.editing != "" {
		res.ID = c.editing
		var ok bool
		ok, err = c.repo.Update(ctx, c.editing, c.form)
		if err == nil && !ok {
			err = fmt.Errorf("%w: %s", ErrNotFound, c.editing)
		}
	} else {
		res.ID = c.newID()
		res.Created = true
		err = c.repo.Add(ctx, c.form.WithID(res.ID))
	}

	c.close()
	if err != nil {
		c.log.WithError(err).WithField("id", res.ID).Warn("save did not complete cleanly")
		return res, err
	}
	c.log.WithFields(logrus.Fields{"id": res.ID, "created": res.Created}).Debug("record saved")
	return res, nil
}

// Cancel discards the form.
func (c *Controller[T]) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == FormOpen {
		c.close()
	}
}

func (c *Controller[T]) close() {
	c.state = Browsing
	c.form = c.def.Blank()
	c.editing = ""
	c.errors = nil
}

// RequestDelete asks for confirmation before deleting id.
func (c *Controller[T]) RequestDelete(id string) (Prompt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Browsing {
		return Prompt{}, ErrInvalidState
	}
	rec, ok := c.repo.Get(id)
	if !ok {
		return Prompt{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	p := Prompt{
		ID:      id,
		Name:    c.def.Label(rec),
		Title:   c.def.DeleteTitle,
		Message: c.def.DeleteMessage,
	}
	c.target = &p
	c.state = ConfirmingDelete
	return p, nil
}

// Pending returns the prompt awaiting confirmation.
func (c *Controller[T]) Pending() (Prompt, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.target == nil {
		return Prompt{}, false
	}
	return *c.target, true
}

// ConfirmDelete deletes the record named in the pending prompt.
func (c *Controller[T]) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != ConfirmingDelete || c.target == nil {
		return ErrInvalidState
	}
	id := c.target.ID
	c.target = nil
	c.state = Browsing

	ok, err := c.repo.Delete(ctx, id)
	if err != nil {
		c.log.WithError(err).WithField("id", id).Warn("delete did not complete cleanly")
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (c *Controller[T]) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == ConfirmingDelete {
		c.target = nil
		c.state = Browsing
	}
}
