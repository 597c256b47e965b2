package main

import (
	"fmt"
	"os"

	"github.com/andresuchdata/allservice/backend-go/internal/config"
	"github.com/andresuchdata/allservice/backend-go/internal/storage"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

// uploadSnapshot validates the document locally before publishing it under
// the configured snapshot key.
func uploadSnapshot(c *cli.Context) error {
	path := c.String("file")
	snapshot, err := readSnapshot(path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	cfg := config.Load()
	client, err := storage.NewMinioClient(cfg.Storage)
	if err != nil {
		return err
	}

	if err := client.PutObject(c.Context, cfg.Storage.SnapshotKey, data, "application/json"); err != nil {
		return err
	}

	log.Info().
		Str("bucket", cfg.Storage.Bucket).
		Str("key", cfg.Storage.SnapshotKey).
		Int("services", len(snapshot.Services)).
		Msg("Snapshot uploaded")
	return nil
}

// listSnapshots prints the snapshot objects stored under a prefix.
func listSnapshots(c *cli.Context) error {
	cfg := config.Load()
	client, err := storage.NewMinioClient(cfg.Storage)
	if err != nil {
		return err
	}

	objects, err := client.ListObjects(c.Context, c.String("prefix"))
	if err != nil {
		return err
	}
	for _, obj := range objects {
		fmt.Fprintf(c.App.Writer, "%s\t%d\n", obj.Key, obj.Size)
	}
	log.Info().Str("bucket", cfg.Storage.Bucket).Int("objects", len(objects)).Msg("Snapshots listed")
	return nil
}
