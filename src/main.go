// Copyright (c) 2026 Khaled Abbas
//
// This source code is licensed under the Business Source License 1.1.
//
// Change Date: 4 years after the first public release of this version.
// Change License: MIT
//
// On the Change Date, this version of the code automatically converts
// to the MIT License. Prior to that date, use is subject to the
// Additional Use Grant. See the LICENSE file for details.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"eisenhower/src/config"
	"eisenhower/src/logging"
	"eisenhower/src/store"
)

func main() {
	// Setup Graceful Shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// app carries the loaded configuration and the flag overrides shared by
// every subcommand.
type app struct {
	cfg config.Config

	envFile  string
	apiURL   string
	port     string
	dbDriver string
	dbPath   string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "eisenhower",
		Short:        "Sort tasks by urgency and importance",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "optional env file to load")
	root.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "task API base URL; overrides API_URL")

	root.AddCommand(
		a.serveCmd(),
		a.seedCmd(),
		a.tuiCmd(),
		a.tasksCmd(),
		a.statusCmd(),
		a.benchCmd(),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.APIURL = a.apiURL
	}
	if a.port != "" {
		cfg.APIPort = a.port
	}
	if a.dbDriver != "" {
		cfg.DBDriver = a.dbDriver
	}
	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}
	a.cfg = cfg

	logging.UseWriter(cmd.ErrOrStderr(), slog.LevelWarn)
	return nil
}

func (a *app) addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&a.dbDriver, "db-driver", "", "database driver, sqlite or postgres; overrides DB_DRIVER")
	cmd.Flags().StringVar(&a.dbPath, "db-path", "", "SQLite database file; overrides DB_PATH")
}

func (a *app) openStore(ctx context.Context) (*store.SQLStore, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	s, err := store.Open(ctx, a.cfg.DBDriver, a.cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", a.cfg.DBDriver, err)
	}
	return s, nil
}

func (a *app) seedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace every task with the seed tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks := store.DefaultSeed()
			if file != "" {
				var err error
				if tasks, err = store.LoadSeedFile(file); err != nil {
					return err
				}
			}

			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			created, err := store.Seed(cmd.Context(), s, tasks)
			if err != nil {
				return err
			}
			for _, t := range created {
				fmt.Fprintf(cmd.OutOrStdout(), "Created task with id: %s\n", t.ID)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Seeding finished.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML seed file (default: a single \"Prayer\" task)")
	a.addStoreFlags(cmd)
	return cmd
}
