// Package cli implements the contacts command line: the REST service, its maintenance commands
// and the directory front ends.
package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gitlab.com/dirk.krummacker/contact-directory/internal/config"
	"gitlab.com/dirk.krummacker/contact-directory/internal/logger"
	"go.uber.org/zap"
)

var (
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// env is what every command needs. It is filled before a subcommand runs.
type env struct {
	cfg  *config.Config
	logg *zap.SugaredLogger
}

// Execute runs the command line. This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCmd creates the contacts command with all subcommands.
func NewRootCmd() *cobra.Command {
	e := &env{}
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "contacts serves and browses a directory of contacts",
		Long: `contacts runs a REST service over a directory of contacts stored in MySQL, SQLite or a
db.json file, and offers a terminal front end to search, page through and edit them.

Configuration is read from environment variables such as PORT, DBDRIVER, DBFILE and API_URL.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logg, err := logger.NewLogger(cfg.LogFormat, cfg.LogLevel)
			if err != nil {
				return err
			}
			e.cfg, e.logg = cfg, logg
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.logg != nil {
				_ = e.logg.Sync()
			}
		},
	}
	cmd.AddCommand(
		newServeCmd(e),
		newMigrateCmd(e),
		newSeedCmd(e),
		newWaitCmd(e),
		newSearchCmd(e),
		newBrowseCmd(e),
		newBenchCmd(e),
	)
	return cmd
}
