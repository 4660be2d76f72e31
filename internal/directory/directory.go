// Package directory owns the canonical state of the contact directory: the contacts on screen,
// the committed search parameters, the loading flag and the pagination state.
package directory

import (
	"context"
	"sync"

	"gitlab.com/dirk.krummacker/contact-directory/internal/client"
	"gitlab.com/dirk.krummacker/contact-directory/internal/model"
	"gitlab.com/dirk.krummacker/contact-directory/internal/search"
	"go.uber.org/zap"
)

// Lister reads one page of contacts.
type Lister interface {
	List(ctx context.Context, filters map[string]string, page int, limit int) (client.Page, error)
}

// State is a snapshot of the coordinator. Page is 1-based.
type State struct {
	Contacts []model.Contact
	Params   search.Params
	Loading  bool
	Page     int
	PageSize int
	Total    int
}

// PageCount returns ceil(Total / PageSize), at least one.
func (s State) PageCount() int {
	if s.PageSize < 1 || s.Total <= 0 {
		return 1
	}
	return (s.Total + s.PageSize - 1) / s.PageSize
}

// Coordinator issues fetches and keeps their results.
type Coordinator struct {
	lister   Lister
	logg     *zap.SugaredLogger
	onChange func(State)

	// notifyMu keeps change notifications in the order of the snapshots they carry.
	notifyMu sync.Mutex

	mu       sync.Mutex
	contacts []model.Contact
	params   search.Params
	loading  bool
	page     int
	pageSize int
	total    int
	// seq numbers the fetches; only the answer to the latest one is applied.
	seq uint64
}

// New returns a coordinator on page 1 without filters. onChange, if not nil, is called with a
// snapshot after every state change.
func New(lister Lister, pageSize int, onChange func(State), logg *zap.SugaredLogger) *Coordinator {
	return &Coordinator{
		lister:   lister,
		logg:     logg,
		onChange: onChange,
		params:   search.Params{},
		page:     1,
		pageSize: pageSize,
	}
}

// Snapshot returns a copy of the current state.
func (c *Coordinator) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Coordinator) snapshot() State {
	contacts := make([]model.Contact, len(c.contacts))
	for i := range c.contacts {
		contacts[i] = c.contacts[i].Clone()
	}
	return State{
		Contacts: contacts,
		Params:   c.params.Clone(),
		Loading:  c.loading,
		Page:     c.page,
		PageSize: c.pageSize,
		Total:    c.total,
	}
}

// notify hands a snapshot to the change callback. It must be called without holding the lock.
func (c *Coordinator) notify() {
	if c.onChange == nil {
		return
	}
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	c.onChange(c.Snapshot())
}

// Fetch reads the given page with the given filters, which become the committed ones. On success
// the contacts and the total are replaced. On failure the error is logged and returned and the
// previous contacts stay. An answer that arrives after a newer fetch was issued is dropped.
func (c *Coordinator) Fetch(ctx context.Context, params search.Params, page int) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.params = params.Clone()
	c.page = page
	c.loading = true
	limit := c.pageSize
	c.mu.Unlock()
	c.notify()

	result, err := c.lister.List(ctx, params, page, limit)

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		c.logg.Debugw("Dropping superseded fetch", "seq", seq, "page", page)
		return nil
	}
	c.loading = false
	if err == nil {
		c.contacts = result.Contacts
		c.total = result.Total
	}
	c.mu.Unlock()
	c.notify()

	if err != nil {
		c.logg.Errorw("Error fetching contacts", "page", page, "error", err)
		return err
	}
	return nil
}

// Search commits new filters and fetches their first page.
func (c *Coordinator) Search(ctx context.Context, params search.Params) error {
	return c.Fetch(ctx, params, 1)
}

// SetPage fetches another page with the committed filters. The page is clamped to the pages
// that exist.
func (c *Coordinator) SetPage(ctx context.Context, page int) error {
	c.mu.Lock()
	state := c.snapshot()
	c.mu.Unlock()
	if count := state.PageCount(); page > count {
		page = count
	}
	if page < 1 {
		page = 1
	}
	return c.Fetch(ctx, state.Params, page)
}

// Reload fetches the first page without filters.
func (c *Coordinator) Reload(ctx context.Context) error {
	return c.Fetch(ctx, search.Params{}, 1)
}

// MergeContact merges the fields present on updated into the contact with the same id.
func (c *Coordinator) MergeContact(updated model.Contact) {
	c.mu.Lock()
	found := false
	for i := range c.contacts {
		if c.contacts[i].Id == updated.Id {
			c.contacts[i].Merge(updated)
			found = true
			break
		}
	}
	c.mu.Unlock()
	if found {
		c.notify()
	}
}
