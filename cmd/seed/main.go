package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/andresuchdata/allservice/backend-go/internal/domain"
	"github.com/andresuchdata/allservice/backend-go/internal/source"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

type dbKey struct{}

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newFileFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "file",
		Usage:   "Snapshot document with services, companies and users",
		Value:   "./data/seeds/snapshot.json",
		EnvVars: []string{"SNAPSHOT_FILE"},
	}
}

func initDB(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.PingContext(c.Context); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey{}, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey{}).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) (*sql.DB, error) {
	db, ok := c.Context.Value(dbKey{}).(*sql.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("database connection not initialized")
	}
	return db, nil
}

func readSnapshot(path string) (domain.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return source.DecodeSnapshot(data)
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Debug().Err(err).Msg("could not load .env file")
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Load and inspect service snapshots",
		Commands: []*cli.Command{
			{
				Name:   "services",
				Usage:  "Upsert companies, users and services from a snapshot into postgres",
				Flags:  []cli.Flag{newDBURLFlag(), newFileFlag()},
				Before: initDB,
				After:  closeDB,
				Action: seedServices,
			},
			{
				Name:   "summary",
				Usage:  "Compute the dashboard summary of a snapshot offline",
				Flags:  summaryFlags(),
				Action: printSummary,
			},
			{
				Name:   "upload",
				Usage:  "Upload a snapshot to object storage for the snapshot backend",
				Flags:  []cli.Flag{newFileFlag()},
				Action: uploadSnapshot,
			},
			{
				Name:  "snapshots",
				Usage: "List snapshot objects in the configured bucket",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "prefix", Usage: "Object key prefix", Value: "snapshots/"},
				},
				Action: listSnapshots,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
}
