package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"gitlab.com/dirk.krummacker/contact-directory/internal/client"
)

func newWaitCmd(e *env) *cobra.Command {
	var (
		apiURL   string
		interval time.Duration
		timeout  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "wait",
		Short: "Wait until the contacts service answers",
		Example: `  contacts wait --url http://localhost:8080 && make test`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if apiURL == "" {
				apiURL = e.cfg.APIURL
			}
			if interval <= 0 {
				return fmt.Errorf("interval must be positive, got %s", interval)
			}
			api := client.New(apiURL, &http.Client{Timeout: interval})
			out := cmd.OutOrStdout()
			var waited time.Duration
			for {
				err := api.Ping(cmd.Context())
				if err == nil {
					fmt.Fprintln(out, green("Service is available at "+apiURL))
					return nil
				}
				fmt.Fprintln(out, err)
				if timeout > 0 && waited >= timeout {
					return fmt.Errorf("service not available after %s", waited)
				}
				waited += interval
				fmt.Fprintf(out, "Waiting %s\n", yellow(waited))
				select {
				case <-cmd.Context().Done():
					return cmd.Context().Err()
				case <-time.After(interval):
				}
			}
		},
	}
	cmd.Flags().StringVar(&apiURL, "url", "", "base URL of the service (default $API_URL)")
	cmd.Flags().DurationVar(&interval, "interval", 5*time.Second, "time between attempts")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "give up after this long, 0 waits forever")
	return cmd
}
