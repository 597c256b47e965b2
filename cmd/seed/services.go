package main

import (
	"fmt"

	"github.com/andresuchdata/allservice/backend-go/internal/repository/postgres"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func seedServices(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}

	snapshot, err := readSnapshot(c.String("file"))
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(c.Context, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	log.Info().
		Int("companies", len(snapshot.Companies)).
		Int("users", len(snapshot.Users)).
		Int("services", len(snapshot.Services)).
		Msg("Starting services seed...")

	if err := postgres.UpsertSnapshot(c.Context, tx, snapshot); err != nil {
		return fmt.Errorf("failed to seed services: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Info().Msg("Services seed completed successfully!")
	return nil
}
