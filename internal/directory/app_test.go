package directory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/dirk.krummacker/contact-directory/internal/client"
	"gitlab.com/dirk.krummacker/contact-directory/internal/model"
	"gitlab.com/dirk.krummacker/contact-directory/internal/search"
	"go.uber.org/zap"
)

func TestAppFlow(t *testing.T) {
	api := &fakeAPI{
		list: func(page int) (client.Page, error) {
			return pageOf(25, int64(page*10-9), int64(page*10-8)), nil
		},
		updated: model.Contact{Id: 11, City: model.StringPtr("Prague")},
	}
	var alerts []string
	app := NewApp(context.Background(), api, 10, func(msg string) { alerts = append(alerts, msg) }, zap.NewNop().Sugar())
	require.NoError(t, app.Coordinator.Reload(context.Background()))
	assert.Len(t, app.Grid.Rows(), 2)
	assert.Equal(t, 3, app.Grid.PageCount())

	// an invalid search never reaches the coordinator
	require.NoError(t, app.Panel.Set(model.Phone, "123"))
	assert.False(t, app.Panel.Submit())
	assert.Equal(t, []string{search.InvalidPhone}, alerts)
	assert.Len(t, api.calls, 1)

	require.NoError(t, app.Panel.Set(model.Phone, ""))
	require.NoError(t, app.Panel.Set(model.FirstName, "An"))
	assert.True(t, app.Panel.Submit())
	require.Len(t, api.calls, 2)
	assert.Equal(t, "An", api.calls[1].filters[model.FirstName])

	// the grid asks for its 0-based page 1, the coordinator fetches page 2
	require.NoError(t, app.Grid.ChangePage(1))
	require.Len(t, api.calls, 3)
	assert.Equal(t, 2, api.calls[2].page)
	assert.Equal(t, "An", api.calls[2].filters[model.FirstName])
	assert.Equal(t, 1, app.Grid.Page())
	assert.Equal(t, int64(11), app.Grid.Rows()[0].Id)

	// a saved row reaches the coordinator's list
	require.NoError(t, app.Grid.Toggle(11))
	require.NoError(t, app.Grid.Edit(model.City, "Prague"))
	require.NoError(t, app.Grid.RequestSave())
	require.NoError(t, app.Grid.Confirm(context.Background(), true))
	assert.Equal(t, "Prague", app.Coordinator.Snapshot().Contacts[0].Get(model.City))
	assert.Equal(t, "Prague", app.Grid.Rows()[0].Get(model.City))

	// reset clears the filters and searches again
	app.Panel.Reset()
	require.Len(t, api.calls, 4)
	assert.Equal(t, 1, api.calls[3].page)
	assert.Equal(t, "", api.calls[3].filters[model.FirstName])
	assert.Equal(t, 0, app.Grid.Page())
}
