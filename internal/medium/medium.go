// Package medium provides the key-value blob stores the card collection is
// persisted in. Each backend holds opaque values under string keys; the card
// store only ever uses a single key.
package medium

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pasjesplank/plank/internal/config"
	"github.com/pasjesplank/plank/internal/model"
)

// Medium is a synchronous key-value blob store.
type Medium interface {
	// Get returns the value stored under key, or nil with no error if absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value stored under key.
	Put(ctx context.Context, key string, value []byte) error

	// Close releases any resources held by the medium.
	Close() error
}

// Open builds the medium selected by the storage config.
func Open(ctx context.Context, cfg model.StorageConfig, paths *config.Paths) (Medium, error) {
	switch cfg.Backend {
	case "", model.BackendFile:
		return NewFile(FileDir(cfg, paths)), nil

	case model.BackendSQLite:
		path := paths.SQLitePath()
		if cfg.Path != "" {
			path = cfg.Path
			if !filepath.IsAbs(path) {
				path = filepath.Join(paths.Home(), path)
			}
		}
		return NewSQLite(path)

	case model.BackendS3:
		return NewS3(ctx, S3Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			Prefix:          cfg.S3.Prefix,
			PathStyle:       cfg.S3.PathStyle,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		})

	case model.BackendMemory:
		return NewMemory(), nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// FileDir returns the directory the file medium writes to, or "" when the
// config selects another backend.
func FileDir(cfg model.StorageConfig, paths *config.Paths) string {
	if cfg.Backend != "" && cfg.Backend != model.BackendFile {
		return ""
	}
	if cfg.Path != "" {
		return cfg.Path
	}
	return paths.DataRoot()
}
