package cli

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gitlab.com/dirk.krummacker/contact-directory/internal/store"
)

func newMigrateCmd(e *env) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Execute an SQL script against the configured database",
		Long: `migrate executes an SQL script statement by statement. A statement ends on the line that
contains a semicolon. Without --file the built-in schema is created.`,
		Example: `  DBDRIVER=mysql DBHOST=localhost DBUSER=dirk DBPWD=bullo92 contacts migrate --file scripts/database.sql
  DBDRIVER=sqlite DBFILE=contacts.db contacts migrate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sqlDB, _, err := store.OpenDB(e.cfg)
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			var script io.Reader = strings.NewReader(store.Schema)
			if file != "" {
				readFile, err := os.Open(file) // nosemgrep
				if err != nil {
					return errors.Wrap(err, "open script")
				}
				defer readFile.Close()
				script = readFile
			}

			executed, err := store.ExecScript(cmd.Context(), sqlDB, script)
			if err != nil {
				return err
			}
			e.logg.Infow("Migration done", "statements", executed)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "the sql file to execute")
	return cmd
}
