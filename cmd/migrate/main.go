package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply database migrations",
		SilenceUsage: true,
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: withDB(func(db *sql.DB, dir string) error {
				if err := goose.Up(db, dir); err != nil {
					return fmt.Errorf("failed to run migrations: %w", err)
				}
				fmt.Println("Migrations applied successfully")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the latest migration",
			RunE: withDB(func(db *sql.DB, dir string) error {
				if err := goose.Down(db, dir); err != nil {
					return fmt.Errorf("failed to rollback migrations: %w", err)
				}
				fmt.Println("Migrations rolled back successfully")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show migration status",
			RunE: withDB(func(db *sql.DB, dir string) error {
				return goose.Status(db, dir)
			}),
		},
		&cobra.Command{
			Use:   "create NAME",
			Short: "Create a new SQL migration",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				if err := checkMigrationName(args[0]); err != nil {
					return err
				}
				if err := goose.Create(nil, migrationsDir(), args[0], "sql"); err != nil {
					return fmt.Errorf("failed to create migration: %w", err)
				}
				fmt.Printf("Migration created: %s\n", args[0])
				return nil
			},
		},
	)

	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func withDB(fn func(db *sql.DB, dir string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		dsn, err := databaseDSN()
		if err != nil {
			return err
		}

		pool, err := pgxpool.New(cmd.Context(), dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		db := stdlib.OpenDBFromPool(pool)
		defer db.Close()

		if err := goose.SetDialect("postgres"); err != nil {
			return err
		}
		return fn(db, migrationsDir())
	}
}
