// Package store persists contacts. SQLStore talks to MySQL or SQLite through sqlx, FileStore
// keeps the json-server style db.json file that the directory was originally seeded into.
package store

import (
	"context"
	"errors"
	"fmt"

	"gitlab.com/dirk.krummacker/contact-directory/internal/model"
)

// DefaultLimit is the page size used when a page is requested without a limit.
const DefaultLimit = 10

// ErrNotFound is returned when no contact with the requested id exists.
var ErrNotFound = errors.New("contact not found")

// Query describes a filtered, sorted and optionally paginated read.
type Query struct {
	// Filters maps a field name to a text that the field must contain, ignoring case. Empty
	// values are ignored.
	Filters map[string]string
	// Page is 1-based. Zero disables pagination.
	Page int
	// Limit is the page size. Zero means DefaultLimit when Page is set.
	Limit int
	// Sort is the field to order by, "id" when empty.
	Sort       string
	Descending bool
}

// Validate checks that all fields named by the query are known and the paging values are sane.
func (q Query) Validate() error {
	for field := range q.Filters {
		if !model.IsField(field) {
			return fmt.Errorf("unknown filter field %q", field)
		}
	}
	if q.Sort != "" {
		if _, ok := model.Column(q.Sort); !ok {
			return fmt.Errorf("unknown sort field %q", q.Sort)
		}
	}
	if q.Page < 0 {
		return fmt.Errorf("invalid page %d", q.Page)
	}
	if q.Limit < 0 {
		return fmt.Errorf("invalid limit %d", q.Limit)
	}
	return nil
}

// Paginated reports whether the query selects a single page.
func (q Query) Paginated() bool {
	return q.Page > 0 || q.Limit > 0
}

// Window returns limit and offset of the selected page.
func (q Query) Window() (limit int, offset int) {
	limit = q.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	page := q.Page
	if page == 0 {
		page = 1
	}
	return limit, (page - 1) * limit
}

// activeFilters returns the filters with a non-empty value, in model.Fields order.
func (q Query) activeFilters() [][2]string {
	var active [][2]string
	for _, field := range model.Fields {
		if value := q.Filters[field]; value != "" {
			active = append(active, [2]string{field, value})
		}
	}
	return active
}

// Store is implemented by every contact storage backend.
type Store interface {
	// Find returns the contacts selected by the query plus the number of contacts matching the
	// filters before pagination.
	Find(ctx context.Context, q Query) ([]model.Contact, int, error)
	// Get returns a single contact or ErrNotFound.
	Get(ctx context.Context, id int64) (model.Contact, error)
	// Update writes the fields present on patch and returns the full contact afterwards.
	Update(ctx context.Context, id int64, patch model.Contact) (model.Contact, error)
	// Insert adds contacts with their ids as given.
	Insert(ctx context.Context, contacts ...model.Contact) error
	Close() error
}
