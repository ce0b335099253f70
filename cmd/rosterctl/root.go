package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ecgf-team/roster-api/internal/platform/bootstrap"
	"github.com/ecgf-team/roster-api/internal/platform/config"
	"github.com/ecgf-team/roster-api/internal/platform/logger"
)

// cli holds the flags shared by every subcommand. Flags override the environment.
type cli struct {
	backend    string
	sqlitePath string
	dbURL      string
	policyFile string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "rosterctl",
		Short: "Manage the member roster from the command line",
		Long: `rosterctl reads and writes the same storage as the roster API.

Storage is chosen from STORAGE_BACKEND, SQLITE_PATH and DATABASE_URL,
or from the matching flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	f := root.PersistentFlags()
	f.StringVar(&c.backend, "backend", "", "storage backend: memory, sqlite or postgres")
	f.StringVar(&c.sqlitePath, "sqlite-path", "", "sqlite database file")
	f.StringVar(&c.dbURL, "database-url", "", "postgres connection string")
	f.StringVar(&c.policyFile, "policy", "", "YAML policy file")
	f.BoolVarP(&c.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(
		newListCmd(c),
		newExportCmd(c),
		newImportCmd(c),
		newStatsCmd(c),
		newMatchCmd(c),
		newLevelCmd(),
	)
	return root
}

func (c *cli) open(ctx context.Context) (*bootstrap.App, error) {
	cfg, err := config.Parse()
	if err != nil {
		return nil, err
	}
	if c.backend != "" {
		cfg.StorageBackend = c.backend
	}
	if c.sqlitePath != "" {
		cfg.SQLitePath = c.sqlitePath
	}
	if c.dbURL != "" {
		cfg.DatabaseURL = c.dbURL
	}
	if c.policyFile != "" {
		cfg.PolicyFile = c.policyFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policy, err := config.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		return nil, err
	}

	log := zap.NewNop()
	if c.verbose {
		if log, err = logger.New("debug", "console", "rosterctl"); err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
	}
	return bootstrap.Open(ctx, cfg, policy, log)
}
