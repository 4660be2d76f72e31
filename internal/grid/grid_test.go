package grid

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/dirk.krummacker/contact-directory/internal/model"
	"go.uber.org/zap"
)

// fakeUpdater records the patches it receives and answers with a canned result.
type fakeUpdater struct {
	patches []model.Contact
	result  model.Contact
	err     error
}

func (f *fakeUpdater) Update(ctx context.Context, id int64, patch model.Contact) (model.Contact, error) {
	f.patches = append(f.patches, patch)
	return f.result, f.err
}

func rows() []model.Contact {
	return []model.Contact{
		{Id: 1, FirstName: model.StringPtr("Erika"), LastName: model.StringPtr("Mustermann"), City: model.StringPtr("Köln")},
		{Id: 2, FirstName: model.StringPtr("Rudi"), LastName: model.StringPtr("Völler"), City: model.StringPtr("Hanau")},
	}
}

func newGrid(updater Updater, callbacks Callbacks) *Grid {
	g := New(updater, 10, callbacks, zap.NewNop().Sugar())
	g.SetRows(rows(), 25)
	return g
}

func TestToggle(t *testing.T) {
	g := newGrid(&fakeUpdater{}, Callbacks{})

	require.NoError(t, g.Toggle(1))
	id, editing := g.Editing()
	assert.True(t, editing)
	assert.Equal(t, int64(1), id)
	draft := g.Draft()
	assert.Equal(t, "Erika", draft.Get(model.FirstName))

	// selecting another row moves edit mode
	require.NoError(t, g.Toggle(2))
	id, _ = g.Editing()
	assert.Equal(t, int64(2), id)
	require.NoError(t, g.Edit(model.City, "Berlin"))

	// selecting it again deselects and drops the draft
	require.NoError(t, g.Toggle(2))
	_, editing = g.Editing()
	assert.False(t, editing)
	assert.True(t, g.Draft().IsEmpty())

	require.NoError(t, g.Toggle(2))
	draft = g.Draft()
	assert.Equal(t, "Hanau", draft.Get(model.City))

	assert.Error(t, g.Toggle(42))
}

func TestEditOnlyTouchesDraft(t *testing.T) {
	g := newGrid(&fakeUpdater{}, Callbacks{})
	assert.ErrorIs(t, g.Edit(model.City, "Berlin"), ErrNotEditing)

	require.NoError(t, g.Toggle(1))
	require.NoError(t, g.Edit(model.City, "Berlin"))
	assert.Error(t, g.Edit("password", "x"))

	draft := g.Draft()
	assert.Equal(t, "Berlin", draft.Get(model.City))
	assert.Equal(t, "Köln", g.Rows()[0].Get(model.City))
}

func TestSaveConfirmed(t *testing.T) {
	updater := &fakeUpdater{result: model.Contact{
		Id:        1,
		FirstName: model.StringPtr("Erika"),
		City:      model.StringPtr("Berlin"),
		Phone:     model.StringPtr("0123456789"),
	}}
	var saved []model.Contact
	g := newGrid(updater, Callbacks{Saved: func(c model.Contact) { saved = append(saved, c) }})

	require.NoError(t, g.Toggle(1))
	require.NoError(t, g.Edit(model.City, "Berlin"))
	require.NoError(t, g.RequestSave())
	assert.True(t, g.Confirming())
	assert.Empty(t, updater.patches)

	require.NoError(t, g.Confirm(context.Background(), true))

	// only the changed field is sent
	require.Len(t, updater.patches, 1)
	assert.Equal(t, "Berlin", updater.patches[0].Get(model.City))
	assert.False(t, updater.patches[0].Has(model.FirstName))

	// the returned fields are merged, the others stay
	row := g.Rows()[0]
	assert.Equal(t, "Berlin", row.Get(model.City))
	assert.Equal(t, "0123456789", row.Get(model.Phone))
	assert.Equal(t, "Mustermann", row.Get(model.LastName))
	assert.Equal(t, "Hanau", g.Rows()[1].Get(model.City))

	_, editing := g.Editing()
	assert.False(t, editing)
	assert.False(t, g.Confirming())
	assert.Len(t, saved, 1)
}

func TestSaveDeclined(t *testing.T) {
	updater := &fakeUpdater{}
	g := newGrid(updater, Callbacks{})

	require.NoError(t, g.Toggle(1))
	require.NoError(t, g.Edit(model.City, "Berlin"))
	require.NoError(t, g.RequestSave())
	require.NoError(t, g.Confirm(context.Background(), false))

	assert.Empty(t, updater.patches)
	_, editing := g.Editing()
	assert.False(t, editing)
	assert.Equal(t, "Köln", g.Rows()[0].Get(model.City))
}

func TestSaveFailed(t *testing.T) {
	updater := &fakeUpdater{err: errors.New("connection refused")}
	var saved []model.Contact
	g := newGrid(updater, Callbacks{Saved: func(c model.Contact) { saved = append(saved, c) }})
	before := g.Rows()

	require.NoError(t, g.Toggle(1))
	require.NoError(t, g.Edit(model.City, "Berlin"))
	require.NoError(t, g.RequestSave())
	assert.Error(t, g.Confirm(context.Background(), true))

	assert.Equal(t, before, g.Rows())
	id, editing := g.Editing()
	assert.True(t, editing)
	assert.Equal(t, int64(1), id)
	draft := g.Draft()
	assert.Equal(t, "Berlin", draft.Get(model.City))
	assert.False(t, g.Confirming())
	assert.Empty(t, saved)
}

func TestSaveWithoutChanges(t *testing.T) {
	updater := &fakeUpdater{}
	g := newGrid(updater, Callbacks{})

	assert.ErrorIs(t, g.RequestSave(), ErrNotEditing)
	assert.Error(t, g.Confirm(context.Background(), true))

	require.NoError(t, g.Toggle(2))
	require.NoError(t, g.RequestSave())
	require.NoError(t, g.Confirm(context.Background(), true))
	assert.Empty(t, updater.patches)
	_, editing := g.Editing()
	assert.False(t, editing)
}

func TestSetRowsDropsVanishedEdit(t *testing.T) {
	g := newGrid(&fakeUpdater{}, Callbacks{})
	require.NoError(t, g.Toggle(2))

	g.SetRows(rows(), 25)
	_, editing := g.Editing()
	assert.True(t, editing)

	g.SetRows(rows()[:1], 1)
	_, editing = g.Editing()
	assert.False(t, editing)
}

func TestChangePage(t *testing.T) {
	var requested []int
	g := newGrid(&fakeUpdater{}, Callbacks{PageChange: func(page int) { requested = append(requested, page) }})
	assert.Equal(t, 3, g.PageCount())

	require.NoError(t, g.ChangePage(2))
	assert.Equal(t, []int{2}, requested)
	// the grid does not move on its own
	assert.Equal(t, 0, g.Page())
	assert.Len(t, g.Rows(), 2)

	assert.Error(t, g.ChangePage(3))
	assert.Error(t, g.ChangePage(-1))

	g.SyncPage(3)
	assert.Equal(t, 2, g.Page())
	g.SyncPage(0)
	assert.Equal(t, 0, g.Page())
}

func TestPageCountEmpty(t *testing.T) {
	g := New(&fakeUpdater{}, 10, Callbacks{}, zap.NewNop().Sugar())
	assert.Equal(t, 1, g.PageCount())
	g.SetRows(nil, 10)
	assert.Equal(t, 1, g.PageCount())
	g.SetRows(nil, 11)
	assert.Equal(t, 2, g.PageCount())
}
