package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gitlab.com/dirk.krummacker/contact-directory/internal/client"
	"gitlab.com/dirk.krummacker/contact-directory/internal/directory"
	"gitlab.com/dirk.krummacker/contact-directory/internal/logger"
	"gitlab.com/dirk.krummacker/contact-directory/internal/tui"
)

func newBrowseCmd(e *env) *cobra.Command {
	var (
		apiURL  string
		logFile string
	)
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Search, page through and edit contacts in the terminal",
		Example: `  API_URL=http://localhost:4000 contacts browse`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if apiURL == "" {
				apiURL = e.cfg.APIURL
			}
			// Log lines on stderr would tear up the screen.
			logg, err := logger.NewLogger("json", e.cfg.LogLevel, logFile)
			if err != nil {
				return err
			}
			defer logg.Sync()

			ctx := cmd.Context()
			notice := &tui.Notice{}
			app := directory.NewApp(ctx, client.New(apiURL, nil), e.cfg.PageSize, notice.Alert, logg)
			program := tea.NewProgram(tui.New(ctx, app, notice), tea.WithAltScreen(), tea.WithContext(ctx))
			_, err = program.Run()
			return err
		},
	}
	cmd.Flags().StringVar(&apiURL, "url", "", "base URL of the service (default $API_URL)")
	cmd.Flags().StringVar(&logFile, "log-file", "contacts-browse.log", "file that receives the log lines")
	return cmd
}
