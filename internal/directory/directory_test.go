package directory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/dirk.krummacker/contact-directory/internal/client"
	"gitlab.com/dirk.krummacker/contact-directory/internal/model"
	"gitlab.com/dirk.krummacker/contact-directory/internal/search"
	"go.uber.org/zap"
)

// call is one List invocation seen by the fake.
type call struct {
	filters map[string]string
	page    int
	limit   int
}

// fakeAPI answers List from a function and records every call.
type fakeAPI struct {
	mu      sync.Mutex
	calls   []call
	list    func(page int) (client.Page, error)
	patches []model.Contact
	updated model.Contact
}

func (f *fakeAPI) List(ctx context.Context, filters map[string]string, page int, limit int) (client.Page, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{filters: filters, page: page, limit: limit})
	f.mu.Unlock()
	return f.list(page)
}

func (f *fakeAPI) Update(ctx context.Context, id int64, patch model.Contact) (model.Contact, error) {
	f.patches = append(f.patches, patch)
	return f.updated, nil
}

func pageOf(total int, ids ...int64) client.Page {
	page := client.Page{Total: total}
	for _, id := range ids {
		page.Contacts = append(page.Contacts, model.Contact{Id: id, FirstName: model.StringPtr("Anna")})
	}
	return page
}

func TestFetchReplacesState(t *testing.T) {
	api := &fakeAPI{list: func(page int) (client.Page, error) { return pageOf(42, 1, 2), nil }}
	var states []State
	c := New(api, 10, func(s State) { states = append(states, s) }, zap.NewNop().Sugar())

	require.NoError(t, c.Fetch(context.Background(), search.Params{model.FirstName: "An"}, 3))

	state := c.Snapshot()
	assert.Len(t, state.Contacts, 2)
	assert.Equal(t, 42, state.Total)
	assert.Equal(t, 3, state.Page)
	assert.Equal(t, 5, state.PageCount())
	assert.False(t, state.Loading)
	assert.Equal(t, "An", state.Params[model.FirstName])

	require.Len(t, api.calls, 1)
	assert.Equal(t, 3, api.calls[0].page)
	assert.Equal(t, 10, api.calls[0].limit)

	// loading is announced before the answer arrives
	require.Len(t, states, 2)
	assert.True(t, states[0].Loading)
	assert.False(t, states[1].Loading)
}

func TestFetchFailureKeepsState(t *testing.T) {
	fail := false
	api := &fakeAPI{list: func(page int) (client.Page, error) {
		if fail {
			return client.Page{}, errors.New("connection refused")
		}
		return pageOf(2, 1, 2), nil
	}}
	c := New(api, 10, nil, zap.NewNop().Sugar())
	require.NoError(t, c.Reload(context.Background()))

	fail = true
	assert.Error(t, c.SetPage(context.Background(), 1))

	state := c.Snapshot()
	assert.Len(t, state.Contacts, 2)
	assert.Equal(t, 2, state.Total)
	assert.False(t, state.Loading)
}

func TestSearchResetsPage(t *testing.T) {
	api := &fakeAPI{list: func(page int) (client.Page, error) { return pageOf(100, 1), nil }}
	c := New(api, 10, nil, zap.NewNop().Sugar())
	require.NoError(t, c.Fetch(context.Background(), search.Params{}, 4))

	require.NoError(t, c.Search(context.Background(), search.Params{model.City: "Prague"}))
	assert.Equal(t, 1, c.Snapshot().Page)
	assert.Equal(t, 1, api.calls[1].page)
	assert.Equal(t, "Prague", api.calls[1].filters[model.City])
}

func TestSetPageUsesCommittedParamsAndClamps(t *testing.T) {
	api := &fakeAPI{list: func(page int) (client.Page, error) { return pageOf(25, 1), nil }}
	c := New(api, 10, nil, zap.NewNop().Sugar())
	committed := search.Params{model.LastName: "Smi"}
	require.NoError(t, c.Search(context.Background(), committed))

	// a later change to the caller's map is a draft, not committed
	committed[model.LastName] = "draft"

	require.NoError(t, c.SetPage(context.Background(), 2))
	assert.Equal(t, "Smi", api.calls[1].filters[model.LastName])
	assert.Equal(t, 2, api.calls[1].page)

	require.NoError(t, c.SetPage(context.Background(), 9))
	assert.Equal(t, 3, api.calls[2].page)

	require.NoError(t, c.SetPage(context.Background(), 0))
	assert.Equal(t, 1, api.calls[3].page)
}

func TestSupersededFetchIsDropped(t *testing.T) {
	release := make(chan struct{})
	api := &fakeAPI{list: func(page int) (client.Page, error) {
		if page == 1 {
			<-release
			return pageOf(10, 1), nil
		}
		return pageOf(30, 21), nil
	}}
	c := New(api, 10, nil, zap.NewNop().Sugar())

	done := make(chan error)
	go func() { done <- c.Fetch(context.Background(), search.Params{}, 1) }()

	// wait until the slow fetch has been issued
	require.Eventually(t, func() bool {
		api.mu.Lock()
		defer api.mu.Unlock()
		return len(api.calls) == 1
	}, time.Second, time.Millisecond)

	require.NoError(t, c.Fetch(context.Background(), search.Params{}, 3))
	close(release)
	require.NoError(t, <-done)

	state := c.Snapshot()
	assert.Equal(t, 3, state.Page)
	require.Len(t, state.Contacts, 1)
	assert.Equal(t, int64(21), state.Contacts[0].Id)
	assert.Equal(t, 30, state.Total)
	assert.False(t, state.Loading)
}

func TestMergeContact(t *testing.T) {
	api := &fakeAPI{list: func(page int) (client.Page, error) { return pageOf(2, 1, 2), nil }}
	c := New(api, 10, nil, zap.NewNop().Sugar())
	require.NoError(t, c.Reload(context.Background()))

	c.MergeContact(model.Contact{Id: 2, City: model.StringPtr("Prague")})
	state := c.Snapshot()
	assert.Equal(t, "Prague", state.Contacts[1].Get(model.City))
	assert.Equal(t, "Anna", state.Contacts[1].Get(model.FirstName))
	assert.False(t, state.Contacts[0].Has(model.City))
}
