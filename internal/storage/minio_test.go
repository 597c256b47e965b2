package storage

import (
	"errors"
	"testing"

	"github.com/andresuchdata/allservice/backend-go/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMinioClientValidation(t *testing.T) {
	valid := config.StorageConfig{Endpoint: "localhost:9000", AccessKey: "ak", SecretKey: "sk", Bucket: "snapshots"}

	tests := []struct {
		name   string
		mutate func(*config.StorageConfig)
		ok     bool
	}{
		{"valid", func(*config.StorageConfig) {}, true},
		{"scheme in endpoint", func(c *config.StorageConfig) { c.Endpoint = "http://localhost:9000/" }, true},
		{"missing endpoint", func(c *config.StorageConfig) { c.Endpoint = "" }, false},
		{"missing secret", func(c *config.StorageConfig) { c.SecretKey = "" }, false},
		{"missing bucket", func(c *config.StorageConfig) { c.Bucket = "" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			client, err := NewMinioClient(cfg)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, "snapshots", client.bucket)
				return
			}
			assert.Error(t, err)
		})
	}
}

func TestWrapNotFound(t *testing.T) {
	err := wrapNotFound("a.json", minio.ErrorResponse{Code: "NoSuchKey"})
	assert.True(t, errors.Is(err, ErrObjectNotFound))

	err = wrapNotFound("a.json", errors.New("boom"))
	assert.False(t, errors.Is(err, ErrObjectNotFound))
}
