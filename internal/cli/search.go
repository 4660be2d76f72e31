package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gitlab.com/dirk.krummacker/contact-directory/internal/client"
	"gitlab.com/dirk.krummacker/contact-directory/internal/directory"
	"gitlab.com/dirk.krummacker/contact-directory/internal/model"
	"gitlab.com/dirk.krummacker/contact-directory/internal/search"
	"gitlab.com/dirk.krummacker/contact-directory/internal/tui"
)

// flagName turns a field name like zipCode into the flag name zip-code.
func flagName(field string) string {
	var b strings.Builder
	for _, r := range field {
		if unicode.IsUpper(r) {
			b.WriteRune('-')
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func newSearchCmd(e *env) *cobra.Command {
	var (
		apiURL string
		page   int
	)
	filters := map[string]*string{}
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Print one page of contacts matching the filters",
		Example: `  contacts search --last-name smith
  contacts search --city york --page 2
  contacts search --dob 1972-06-06`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if apiURL == "" {
				apiURL = e.cfg.APIURL
			}
			ctx := cmd.Context()
			coordinator := directory.New(client.New(apiURL, nil), e.cfg.PageSize, nil, e.logg)

			var alert string
			var fetchErr error
			panel := search.NewPanel(func(p search.Params) {
				fetchErr = coordinator.Fetch(ctx, p, max(page, 1))
			}, func(msg string) {
				alert = msg
			})
			for field, value := range filters {
				if err := panel.Set(field, *value); err != nil {
					return err
				}
			}
			if !panel.Submit() {
				fmt.Fprintln(cmd.ErrOrStderr(), red(alert))
				return errors.New(alert)
			}
			if fetchErr != nil {
				return fetchErr
			}
			// A page past the end is only known once the total is; fall back to the last one.
			if state := coordinator.Snapshot(); state.Page > state.PageCount() {
				if err := coordinator.SetPage(ctx, state.Page); err != nil {
					return err
				}
			}
			printPage(cmd.OutOrStdout(), coordinator.Snapshot())
			return nil
		},
	}
	for _, field := range model.Fields {
		filters[field] = cmd.Flags().String(flagName(field), "", "filter on "+strings.ToLower(tui.Label(field)))
	}
	cmd.Flags().StringVar(&apiURL, "url", "", "base URL of the service (default $API_URL)")
	cmd.Flags().IntVar(&page, "page", 1, "page to show, starting at 1")
	return cmd
}

// printPage writes the contacts of a coordinator state as a table followed by the page info.
func printPage(out io.Writer, state directory.State) {
	if len(state.Contacts) == 0 {
		fmt.Fprintln(out, yellow("No contacts found."))
		return
	}
	headers := []string{"ID"}
	for _, field := range model.Fields {
		headers = append(headers, tui.Label(field))
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
	for _, c := range state.Contacts {
		row := []string{strconv.FormatInt(c.Id, 10)}
		for _, field := range model.Fields {
			row = append(row, c.Get(field))
		}
		t.Row(row...)
	}
	fmt.Fprintln(out, t.Render())
	fmt.Fprintf(out, "Page %s of %d, %d contacts\n", bold(state.Page), state.PageCount(), state.Total)
}
