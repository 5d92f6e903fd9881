package main

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"agentzone/internal/config"
)

const defaultMigrationsDir = "db/migrations"

var migrationNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return defaultMigrationsDir
}

// databaseDSN reads DB_DSN after the env files. Migrations do not need the
// hosted-store keys, so the full config.Load is not used here.
func databaseDSN() (string, error) {
	config.LoadEnvFiles()
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		return "", errors.New("DB_DSN is required")
	}
	return dsn, nil
}

// checkMigrationName keeps generated file names in the snake_case form the
// existing migrations use.
func checkMigrationName(name string) error {
	if !migrationNamePattern.MatchString(name) {
		return fmt.Errorf("migration name %q must be snake_case, e.g. add_tool_slug", name)
	}
	return nil
}
