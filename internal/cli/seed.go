package cli

import (
	"github.com/spf13/cobra"
	"gitlab.com/dirk.krummacker/contact-directory/internal/randomgen"
	"gitlab.com/dirk.krummacker/contact-directory/internal/store"
)

func newSeedCmd(e *env) *cobra.Command {
	var (
		count int
		first int64
		seed  int64
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert synthetic contacts into the configured store",
		Example: `  DBDRIVER=file DBFILE=db.json contacts seed --count 150
  DBDRIVER=sqlite DBFILE=contacts.db contacts seed --count 1000 --seed 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			contacts, err := store.Open(e.cfg)
			if err != nil {
				return err
			}
			defer contacts.Close()

			generated := randomgen.New(seed).Contacts(first, count)
			if err := contacts.Insert(cmd.Context(), generated...); err != nil {
				return err
			}
			e.logg.Infow("Seeded contacts", "count", count, "firstId", first)
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 150, "number of contacts to create")
	cmd.Flags().Int64Var(&first, "first-id", 1, "id of the first contact")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed, 0 for a random one")
	return cmd
}
