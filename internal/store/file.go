package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"gitlab.com/dirk.krummacker/contact-directory/internal/model"
)

// document is the layout of db.json.
type document struct {
	Contacts []model.Contact `json:"contacts"`
}

// FileStore keeps all contacts in memory and writes them back to a JSON file after every change.
type FileStore struct {
	path string

	mu       sync.RWMutex
	contacts []model.Contact
}

// OpenFile loads the contacts from path. A missing file is treated as an empty directory and is
// created on the first write.
func OpenFile(path string) (*FileStore, error) {
	s := &FileStore{path: path}
	data, err := os.ReadFile(path) // nosemgrep
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	s.contacts = doc.Contacts
	return s, nil
}

// matches reports whether the contact contains every active filter text, ignoring case.
func matches(c *model.Contact, active [][2]string) bool {
	for _, filter := range active {
		if !strings.Contains(strings.ToLower(c.Get(filter[0])), strings.ToLower(filter[1])) {
			return false
		}
	}
	return true
}

// less orders two contacts by a field; ties and the id field fall back to the id.
func less(a, b *model.Contact, field string) bool {
	if field != "" && field != "id" {
		if va, vb := a.Get(field), b.Get(field); va != vb {
			return va < vb
		}
	}
	return a.Id < b.Id
}

// Find implements Store.
func (s *FileStore) Find(ctx context.Context, q Query) ([]model.Contact, int, error) {
	if err := q.Validate(); err != nil {
		return nil, 0, err
	}
	s.mu.RLock()
	active := q.activeFilters()
	selected := []model.Contact{}
	for i := range s.contacts {
		if matches(&s.contacts[i], active) {
			selected = append(selected, s.contacts[i].Clone())
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(selected, func(i, j int) bool {
		if q.Descending {
			return less(&selected[j], &selected[i], q.Sort)
		}
		return less(&selected[i], &selected[j], q.Sort)
	})

	total := len(selected)
	if q.Paginated() {
		limit, offset := q.Window()
		if offset >= total {
			return []model.Contact{}, total, nil
		}
		end := offset + limit
		if end > total {
			end = total
		}
		selected = selected[offset:end]
	}
	return selected, total, nil
}

// Get implements Store.
func (s *FileStore) Get(ctx context.Context, id int64) (model.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.contacts[i].Clone(), nil
	}
	return model.Contact{}, ErrNotFound
}

// Update implements Store.
func (s *FileStore) Update(ctx context.Context, id int64, patch model.Contact) (model.Contact, error) {
	if patch.IsEmpty() {
		return model.Contact{}, errors.New("no values to be updated")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return model.Contact{}, ErrNotFound
	}
	previous := s.contacts[i].Clone()
	s.contacts[i].Merge(patch)
	if err := s.flush(); err != nil {
		s.contacts[i] = previous
		return model.Contact{}, err
	}
	return s.contacts[i].Clone(), nil
}

// Insert implements Store.
func (s *FileStore) Insert(ctx context.Context, contacts ...model.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[int64]bool{}
	for _, c := range contacts {
		if seen[c.Id] || s.indexOf(c.Id) >= 0 {
			return errors.Errorf("contact %d already exists", c.Id)
		}
		seen[c.Id] = true
	}
	previous := len(s.contacts)
	for _, c := range contacts {
		s.contacts = append(s.contacts, c.Clone())
	}
	if err := s.flush(); err != nil {
		s.contacts = s.contacts[:previous]
		return err
	}
	return nil
}

// Close implements Store. All changes are already on disk.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) indexOf(id int64) int {
	for i := range s.contacts {
		if s.contacts[i].Id == id {
			return i
		}
	}
	return -1
}

// flush writes the file through a temporary file so readers never see a partial document.
// The caller holds the write lock.
func (s *FileStore) flush() error {
	data, err := json.MarshalIndent(document{Contacts: s.contacts}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode contacts")
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".db-*.json")
	if err != nil {
		return errors.Wrap(err, "create temporary file")
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(err, "write contacts")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "write contacts")
	}
	return errors.Wrapf(os.Rename(tmp.Name(), s.path), "replace %s", s.path)
}
