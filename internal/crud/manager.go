package crud

import (
	"context"
	"errors"
	"fmt"

	"chickstage-backend-go/internal/records"

	"go.uber.org/zap"
)

var (
	ErrReadOnly   = errors.New("collection is read-only")
	ErrIncomplete = errors.New("required field missing")
)

// Dialog is the state of the create/edit dialog.
type Dialog int

const (
	DialogClosed Dialog = iota
	DialogCreate
	DialogEdit
)

func (d Dialog) String() string {
	switch d {
	case DialogCreate:
		return "open-create"
	case DialogEdit:
		return "open-edit"
	}
	return "closed"
}

// Manager owns one collection's table, dialog and form state. It is not safe
// for concurrent use; build one per request.
type Manager struct {
	schema Schema
	store  records.Store
	notify Notifier
	log    *zap.Logger

	items     []records.Record
	form      FormState
	dialog    Dialog
	editingID string
}

func NewManager(schema Schema, store records.Store, notify Notifier, logger *zap.Logger) *Manager {
	if notify == nil {
		notify = NotifierFunc(func(Toast) {})
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		schema: schema,
		store:  store,
		notify: notify,
		log:    logger.With(zap.String("collection", schema.Collection)),
		items:  []records.Record{},
	}
	m.ResetForm()
	return m
}

func (m *Manager) Schema() Schema    { return m.schema }
func (m *Manager) Dialog() Dialog    { return m.dialog }
func (m *Manager) EditingID() string { return m.editingID }
func (m *Manager) Form() FormState   { return m.form.Clone() }

func (m *Manager) Items() []records.Record {
	out := make([]records.Record, len(m.items))
	copy(out, m.items)
	return out
}

// Find returns the listed record with the given id.
func (m *Manager) Find(id string) (records.Record, bool) {
	for _, item := range m.items {
		if item.ID() == id {
			return item, true
		}
	}
	return nil, false
}

// SetField updates one input. Names outside the schema are ignored.
func (m *Manager) SetField(name, value string) {
	if _, ok := m.schema.Field(name); ok {
		m.form[name] = value
	}
}

func (m *Manager) SetForm(form FormState) {
	for name, value := range form {
		m.SetField(name, value)
	}
}

// List replaces the table with the whole collection, newest first. On failure
// the previous rows are kept.
func (m *Manager) List(ctx context.Context) error {
	items, err := m.store.List(ctx, m.schema.Collection, "created_at", records.Descending)
	if err != nil {
		m.log.Warn("fetch failed", zap.Error(err))
		m.notify.Notify(errorToast("Failed to fetch " + m.schema.Plural))
		return err
	}
	if items == nil {
		items = []records.Record{}
	}
	m.items = items
	return nil
}

func (m *Manager) OpenCreate() {
	m.form = m.schema.DefaultForm()
	m.editingID = ""
	m.dialog = DialogCreate
}

// Edit loads a record into the form and opens the dialog in edit mode.
func (m *Manager) Edit(rec records.Record) error {
	if m.schema.ReadOnly {
		return ErrReadOnly
	}
	m.form = ToFormFields(m.schema, rec)
	m.editingID = rec.ID()
	m.dialog = DialogEdit
	return nil
}

// EditByID edits a listed record, or just targets the id when the row is not
// in the current list.
func (m *Manager) EditByID(id string) error {
	rec, ok := m.Find(id)
	if !ok {
		rec = records.Record{"id": id}
	}
	return m.Edit(rec)
}

// Submit writes the form: an update of the record being edited, an insert
// otherwise. The dialog stays open with the form intact when it fails.
func (m *Manager) Submit(ctx context.Context) error {
	if m.schema.ReadOnly {
		return ErrReadOnly
	}
	if missing := MissingRequired(m.schema, m.form); len(missing) > 0 {
		if m.dialog == DialogClosed {
			m.dialog = DialogCreate
		}
		m.notify.Notify(errorToast(missing[0].Label + " is required"))
		return fmt.Errorf("%w: %s", ErrIncomplete, missing[0].Name)
	}

	rec := ToRecord(m.schema, m.form)
	verb, done := "create", "created"
	var err error
	if m.editingID != "" {
		verb, done = "update", "updated"
		_, err = m.store.Update(ctx, m.schema.Collection, m.editingID, rec)
	} else {
		_, err = m.store.Insert(ctx, m.schema.Collection, rec)
	}
	if err != nil {
		m.log.Warn(verb+" failed", zap.String("id", m.editingID), zap.Error(err))
		m.notify.Notify(errorToast(fmt.Sprintf("Failed to %s %s", verb, m.schema.noun())))
		return err
	}

	m.notify.Notify(successToast(fmt.Sprintf("%s %s successfully", m.schema.Entity, done)))
	m.ResetForm()
	_ = m.List(ctx)
	return nil
}

// Delete removes a record by id. There is no confirmation step and no undo.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if m.schema.ReadOnly {
		return ErrReadOnly
	}
	if err := m.store.Delete(ctx, m.schema.Collection, id); err != nil {
		m.log.Warn("delete failed", zap.String("id", id), zap.Error(err))
		m.notify.Notify(errorToast("Failed to delete " + m.schema.noun()))
		return err
	}
	m.notify.Notify(successToast(m.schema.Entity + " deleted successfully"))
	_ = m.List(ctx)
	return nil
}

// ResetForm restores the declared defaults and closes the dialog.
func (m *Manager) ResetForm() {
	m.form = m.schema.DefaultForm()
	m.editingID = ""
	m.dialog = DialogClosed
}
