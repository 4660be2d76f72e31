package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/dirk.krummacker/contact-directory/internal/model"
)

// recorder collects the calls of the panel callbacks.
type recorder struct {
	searches []Params
	alerts   []string
}

func newPanel() (*Panel, *recorder) {
	rec := &recorder{}
	panel := NewPanel(
		func(p Params) { rec.searches = append(rec.searches, p) },
		func(msg string) { rec.alerts = append(rec.alerts, msg) },
	)
	return panel, rec
}

func TestSubmitInvalidFields(t *testing.T) {
	cases := []struct {
		field string
		value string
		alert string
	}{
		{model.Email, "wewew", "Invalid email address!"},
		{model.Phone, "123", "Invalid phone number!"},
		{model.Dob, "29-02-2024", "Invalid birthdate format! Use YYYY-MM-DD."},
	}
	for _, c := range cases {
		t.Run(c.field, func(t *testing.T) {
			panel, rec := newPanel()
			require.NoError(t, panel.Set(c.field, c.value))

			assert.False(t, panel.Submit())
			assert.Empty(t, rec.searches)
			assert.Equal(t, []string{c.alert}, rec.alerts)
		})
	}
}

func TestSubmitReportsFirstFailureOnly(t *testing.T) {
	panel, rec := newPanel()
	require.NoError(t, panel.Load(Params{model.Email: "wewew", model.Phone: "123"}))

	panel.Submit()
	assert.Equal(t, []string{InvalidEmail}, rec.alerts)
	assert.Empty(t, rec.searches)
}

func TestSubmitValid(t *testing.T) {
	panel, rec := newPanel()
	require.NoError(t, panel.Load(Params{
		model.FirstName: "Veronica",
		model.Email:     "Ashleigh64@yahoo.com",
		model.Phone:     "0123456789",
		model.Dob:       "1990-01-31",
		model.City:      "",
	}))

	assert.True(t, panel.Submit())
	require.Len(t, rec.searches, 1)
	assert.Equal(t, "Veronica", rec.searches[0][model.FirstName])
	assert.Empty(t, rec.alerts)

	// the callback got a copy
	rec.searches[0][model.FirstName] = "changed"
	assert.Equal(t, "Veronica", panel.Value(model.FirstName))
}

func TestSubmitEmptyDraft(t *testing.T) {
	panel, rec := newPanel()
	assert.True(t, panel.Submit())
	assert.Len(t, rec.searches, 1)
}

func TestReset(t *testing.T) {
	panel, rec := newPanel()
	require.NoError(t, panel.Set(model.FirstName, "Veronica"))
	require.NoError(t, panel.Set(model.Phone, "123"))
	assert.True(t, panel.HasActiveFilter())

	panel.Reset()

	require.Len(t, rec.searches, 1)
	assert.Equal(t, Empty(), rec.searches[0])
	for _, field := range model.Fields {
		assert.Equal(t, "", rec.searches[0][field], field)
	}
	assert.Len(t, rec.searches[0], len(model.Fields))
	assert.False(t, panel.HasActiveFilter())
	assert.Empty(t, rec.alerts)
}

func TestSetUnknownField(t *testing.T) {
	panel, _ := newPanel()
	assert.Error(t, panel.Set("password", "x"))
	assert.Error(t, panel.Load(Params{"id": "1"}))
}

func TestToggleMoreFilters(t *testing.T) {
	panel, rec := newPanel()
	require.NoError(t, panel.Set(model.City, "Prague"))
	assert.Equal(t, model.PrimaryFields, panel.VisibleFields())

	assert.True(t, panel.ToggleMoreFilters())
	assert.Equal(t, model.Fields, panel.VisibleFields())

	assert.False(t, panel.ToggleMoreFilters())
	assert.Equal(t, "Prague", panel.Value(model.City))

	panel.Submit()
	require.Len(t, rec.searches, 1)
	assert.Equal(t, "Prague", rec.searches[0][model.City])
}
