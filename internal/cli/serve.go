package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gitlab.com/dirk.krummacker/contact-directory/internal/service"
	"gitlab.com/dirk.krummacker/contact-directory/internal/store"
)

func newServeCmd(e *env) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the contacts REST service",
		Example: `  PORT=4000 DBDRIVER=mysql DBUSER=dirk DBPWD=bullo92 GIN_MODE=release GIN_LOGGING=off contacts serve
  DBDRIVER=file DBFILE=db.json contacts serve --port 8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == 0 {
				port = e.cfg.Port
			}
			contacts, err := store.Open(e.cfg)
			if err != nil {
				return err
			}
			defer contacts.Close()

			router := service.SetupHttpRouter(contacts, e.logg, e.cfg.RequestLogging())
			e.logg.Infow("Starting contacts service", "port", port, "driver", e.cfg.DBDriver)
			return router.Run(fmt.Sprintf(":%d", port))
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (default $PORT)")
	return cmd
}
