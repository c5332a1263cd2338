package main

import (
	"flag"
	"log"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/spec-kit/agency-crm/internal/config"
)

// Standalone migration runner for deployments where the API is started with
// POSTGRES_RUN_MIGRATIONS=false.
func main() {
	var (
		command = flag.String("command", "up", "Migration command (up, down, force)")
		source  = flag.String("source", "file://migrations", "Migration source URL")
		version = flag.String("version", "", "Version for the force command")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pgxCfg, err := pgx.ParseConfig(cfg.Postgres.DSN)
	if err != nil {
		log.Fatalf("failed to parse DSN: %v", err)
	}
	db := stdlib.OpenDB(*pgxCfg)
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Fatalf("failed to create migration driver: %v", err)
	}

	m, err := migrate.NewWithDatabaseInstance(*source, "postgres", driver)
	if err != nil {
		log.Fatalf("failed to create migrator: %v", err)
	}

	switch *command {
	case "up":
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("failed to apply migrations: %v", err)
		}
		log.Println("migrations applied")
	case "down":
		if err := m.Down(); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("failed to revert migrations: %v", err)
		}
		log.Println("migrations reverted")
	case "force":
		v, err := strconv.Atoi(*version)
		if err != nil {
			log.Fatalf("force requires a numeric -version: %v", err)
		}
		if err := m.Force(v); err != nil {
			log.Fatalf("failed to force migration version: %v", err)
		}
		log.Printf("migration version forced to %d", v)
	default:
		log.Fatalf("unknown command: %s", *command)
	}
}
