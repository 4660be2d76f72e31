package directory

import (
	"context"

	"gitlab.com/dirk.krummacker/contact-directory/internal/grid"
	"gitlab.com/dirk.krummacker/contact-directory/internal/search"
	"go.uber.org/zap"
)

// API is the part of the REST client the directory needs.
type API interface {
	Lister
	grid.Updater
}

// App wires the search panel, the grid and the coordinator together:
// a submitted search goes to the coordinator, the coordinator pushes its state into the grid,
// the grid reports page requests and saved records back to the coordinator.
type App struct {
	Coordinator *Coordinator
	Panel       *search.Panel
	Grid        *grid.Grid
}

// NewApp builds a directory. ctx bounds the fetches started from panel and grid callbacks.
func NewApp(ctx context.Context, api API, pageSize int, alert func(string), logg *zap.SugaredLogger) *App {
	app := &App{}
	app.Coordinator = New(api, pageSize, func(s State) {
		app.Grid.SetLoading(s.Loading)
		app.Grid.SetRows(s.Contacts, s.Total)
		app.Grid.SyncPage(s.Page)
	}, logg)
	app.Grid = grid.New(api, pageSize, grid.Callbacks{
		PageChange: func(page int) {
			// the grid counts from 0, the coordinator from 1
			app.Coordinator.SetPage(ctx, page+1)
		},
		Saved: app.Coordinator.MergeContact,
	}, logg)
	app.Panel = search.NewPanel(func(p search.Params) {
		app.Coordinator.Search(ctx, p)
	}, alert)
	return app
}
