package main

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/spf13/cobra"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"

	"github.com/JaimeStill/triage/internal/config"
)

//go:embed migrations/*.sql
var migrations embed.FS

const envDSN = "TRIAGE_DB_DSN"

func main() {
	if err := newRootCmd(open).Execute(); err != nil {
		os.Exit(1)
	}
}

// migrator is the subset of *migrate.Migrate the commands drive.
type migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (uint, bool, error)
	Force(version int) error
	Close() (error, error)
}

type opener func(dsn string) (migrator, error)

func open(dsn string) (migrator, error) {
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}

// resolveDSN prefers the flag, then TRIAGE_DB_DSN, then the finalized database config.
func resolveDSN(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if v := os.Getenv(envDSN); v != "" {
		return v, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("resolve dsn: %w", err)
	}
	return cfg.Database.URL(), nil
}

func newRootCmd(openFn opener) *cobra.Command {
	var dsn string

	rootCmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply the triage database schema",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "database connection URL (default $"+envDSN+" or config)")

	run := func(fn func(cmd *cobra.Command, m migrator) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			url, err := resolveDSN(dsn)
			if err != nil {
				return err
			}

			m, err := openFn(url)
			if err != nil {
				return err
			}
			defer m.Close()

			return fn(cmd, m)
		}
	}

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: run(func(cmd *cobra.Command, m migrator) error {
				if err := ignoreNoChange(m.Up()); err != nil {
					return fmt.Errorf("up: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied successfully")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revert all migrations",
			Args:  cobra.NoArgs,
			RunE: run(func(cmd *cobra.Command, m migrator) error {
				if err := ignoreNoChange(m.Down()); err != nil {
					return fmt.Errorf("down: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations reverted successfully")
				return nil
			}),
		},
		stepsCmd(run),
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: run(func(cmd *cobra.Command, m migrator) error {
				v, dirty, err := m.Version()
				if errors.Is(err, migrate.ErrNilVersion) {
					fmt.Fprintln(cmd.OutOrStdout(), "version: none")
					return nil
				}
				if err != nil {
					return fmt.Errorf("version: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version: %d, dirty: %v\n", v, dirty)
				return nil
			}),
		},
		forceCmd(run),
	)

	return rootCmd
}

type runner func(fn func(cmd *cobra.Command, m migrator) error) func(*cobra.Command, []string) error

func stepsCmd(run runner) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:     "steps N",
		Short:   "Apply N migrations (negative N reverts)",
		Example: "  migrate steps 1\n  migrate steps -- -1",
		Args:    cobra.ExactArgs(1),
		PreRunE: func(_ *cobra.Command, args []string) error {
			v, err := strconv.Atoi(args[0])
			if err != nil || v == 0 {
				return fmt.Errorf("steps: N must be a non-zero integer, got %q", args[0])
			}
			n = v
			return nil
		},
	}
	cmd.RunE = run(func(cmd *cobra.Command, m migrator) error {
		if err := ignoreNoChange(m.Steps(n)); err != nil {
			return fmt.Errorf("steps: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration steps\n", n)
		return nil
	})
	return cmd
}

func forceCmd(run runner) *cobra.Command {
	var v int
	cmd := &cobra.Command{
		Use:   "force V",
		Short: "Set the schema version without running migrations",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(_ *cobra.Command, args []string) error {
			parsed, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("force: V must be an integer, got %q", args[0])
			}
			v = parsed
			return nil
		},
	}
	cmd.RunE = run(func(cmd *cobra.Command, m migrator) error {
		if err := m.Force(v); err != nil {
			return fmt.Errorf("force: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "forced to version %d\n", v)
		return nil
	})
	return cmd
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}
