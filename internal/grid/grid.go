// Package grid holds the state of the result grid: the rows of the current page, the single row
// that is being edited and the confirmation step in front of a save.
package grid

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"gitlab.com/dirk.krummacker/contact-directory/internal/model"
	"go.uber.org/zap"
)

// ErrNotEditing is returned by operations that need a selected row.
var ErrNotEditing = errors.New("no row selected for editing")

// Updater persists a partial update and returns the stored record.
type Updater interface {
	Update(ctx context.Context, id int64, patch model.Contact) (model.Contact, error)
}

// Callbacks connect the grid with its owner. Both are optional.
type Callbacks struct {
	// PageChange receives the 0-based page the user asked for.
	PageChange func(page int)
	// Saved receives the record returned by a successful update.
	Saved func(model.Contact)
}

// Grid is the editable result grid. Pages are 0-based here.
type Grid struct {
	updater   Updater
	callbacks Callbacks
	logg      *zap.SugaredLogger
	pageSize  int

	mu         sync.Mutex
	rows       []model.Contact
	total      int
	page       int
	loading    bool
	editing    bool
	editingID  int64
	draft      model.Contact
	confirming bool
}

// New returns an empty grid.
func New(updater Updater, pageSize int, callbacks Callbacks, logg *zap.SugaredLogger) *Grid {
	return &Grid{
		updater:   updater,
		callbacks: callbacks,
		logg:      logg,
		pageSize:  pageSize,
	}
}

// SetRows replaces the rendered rows and the total number of matching contacts. An edit in
// progress survives only if its row is still present.
func (g *Grid) SetRows(rows []model.Contact, total int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rows = make([]model.Contact, len(rows))
	for i := range rows {
		g.rows[i] = rows[i].Clone()
	}
	g.total = total
	if g.editing && g.indexOf(g.editingID) < 0 {
		g.clearEdit()
	}
}

// SetLoading marks the grid as waiting for data.
func (g *Grid) SetLoading(loading bool) {
	g.mu.Lock()
	g.loading = loading
	g.mu.Unlock()
}

// Loading reports whether the grid is waiting for data.
func (g *Grid) Loading() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.loading
}

// Rows returns a copy of the rendered rows.
func (g *Grid) Rows() []model.Contact {
	g.mu.Lock()
	defer g.mu.Unlock()
	rows := make([]model.Contact, len(g.rows))
	for i := range g.rows {
		rows[i] = g.rows[i].Clone()
	}
	return rows
}

// Toggle selects the row with the given id for editing, seeding the draft from the row. Toggling
// the row that is already selected deselects it and drops the draft.
func (g *Grid) Toggle(id int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.editing && g.editingID == id {
		g.clearEdit()
		return nil
	}
	i := g.indexOf(id)
	if i < 0 {
		return fmt.Errorf("no row with id %d", id)
	}
	g.editing = true
	g.editingID = id
	g.draft = g.rows[i].Clone()
	g.confirming = false
	return nil
}

// Editing returns the id of the selected row.
func (g *Grid) Editing() (int64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.editingID, g.editing
}

// Draft returns a copy of the draft of the selected row.
func (g *Grid) Draft() model.Contact {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.draft.Clone()
}

// Edit changes one field of the draft. The rows are not touched.
func (g *Grid) Edit(field string, value string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.editing {
		return ErrNotEditing
	}
	if !g.draft.Set(field, value) {
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}

// RequestSave opens the yes/no confirmation for the selected row.
func (g *Grid) RequestSave() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.editing {
		return ErrNotEditing
	}
	g.confirming = true
	return nil
}

// Confirming reports whether the confirmation is open.
func (g *Grid) Confirming() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.confirming
}

// Confirm answers the confirmation. Declining cancels the save and leaves edit mode. Accepting
// sends the changed fields; on success the returned fields are merged into the row and edit mode
// ends, on failure the rows stay as they were and the row remains in edit mode.
func (g *Grid) Confirm(ctx context.Context, yes bool) error {
	g.mu.Lock()
	if !g.confirming {
		g.mu.Unlock()
		return errors.New("no save to confirm")
	}
	g.confirming = false
	if !yes {
		g.clearEdit()
		g.mu.Unlock()
		return nil
	}
	id := g.editingID
	i := g.indexOf(id)
	if i < 0 {
		g.clearEdit()
		g.mu.Unlock()
		return fmt.Errorf("no row with id %d", id)
	}
	patch := g.rows[i].Diff(g.draft)
	if patch.IsEmpty() {
		g.clearEdit()
		g.mu.Unlock()
		return nil
	}
	g.mu.Unlock()

	updated, err := g.updater.Update(ctx, id, patch)
	if err != nil {
		g.logg.Errorw("Error updating contact", "id", id, "error", err)
		return err
	}

	g.mu.Lock()
	if i := g.indexOf(id); i >= 0 {
		g.rows[i].Merge(updated)
	}
	if g.editing && g.editingID == id {
		g.clearEdit()
	}
	g.mu.Unlock()

	if g.callbacks.Saved != nil {
		g.callbacks.Saved(updated)
	}
	return nil
}

// Page returns the current 0-based page.
func (g *Grid) Page() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.page
}

// PageCount returns the number of pages, at least one.
func (g *Grid) PageCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return pageCount(g.total, g.pageSize)
}

// Total returns the number of contacts matching the committed filters.
func (g *Grid) Total() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.total
}

// ChangePage reports a page request upward. Data is never sliced locally; the grid shows the new
// page once its owner calls SyncPage and SetRows.
func (g *Grid) ChangePage(page int) error {
	g.mu.Lock()
	count := pageCount(g.total, g.pageSize)
	g.mu.Unlock()
	if page < 0 || page >= count {
		return fmt.Errorf("page %d out of range [0, %d)", page, count)
	}
	if g.callbacks.PageChange != nil {
		g.callbacks.PageChange(page)
	}
	return nil
}

// SyncPage sets the page from the 1-based page of the owner.
func (g *Grid) SyncPage(page int) {
	g.mu.Lock()
	g.page = page - 1
	if g.page < 0 {
		g.page = 0
	}
	g.mu.Unlock()
}

func pageCount(total int, pageSize int) int {
	if pageSize < 1 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// clearEdit leaves edit mode. The caller holds the lock.
func (g *Grid) clearEdit() {
	g.editing = false
	g.editingID = 0
	g.draft = model.Contact{}
	g.confirming = false
}

// indexOf returns the position of the row with the given id. The caller holds the lock.
func (g *Grid) indexOf(id int64) int {
	for i := range g.rows {
		if g.rows[i].Id == id {
			return i
		}
	}
	return -1
}
