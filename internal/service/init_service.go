package service

import (
	"os"

	"github.com/pasjesplank/plank/internal/config"
	kanerr "github.com/pasjesplank/plank/internal/errors"
	"github.com/pasjesplank/plank/internal/model"
	"github.com/pasjesplank/plank/internal/store"
	"github.com/pasjesplank/plank/internal/validator"
)

// InitService writes the first config file.
type InitService struct {
	paths   *config.Paths
	configs store.ConfigStore
}

// NewInitService creates a new init service.
func NewInitService(paths *config.Paths, configs store.ConfigStore) *InitService {
	return &InitService{paths: paths, configs: configs}
}

// InitOptions selects the storage the new config points at.
type InitOptions struct {
	Backend string `validate:"omitempty,oneof=file sqlite s3 memory"`
	Path    string
	Bucket  string
	Region  string
}

// InitResult reports what Initialize did.
type InitResult struct {
	Config     *model.Config
	ConfigPath string
	Created    bool
}

// Initialize writes a default config with the chosen storage. An existing
// config is loaded and left untouched.
func (s *InitService) Initialize(opts InitOptions) (*InitResult, error) {
	if err := validator.Struct(opts); err != nil {
		return nil, err
	}

	result := &InitResult{ConfigPath: s.paths.ConfigPath()}

	if _, err := os.Stat(result.ConfigPath); err == nil {
		cfg, err := s.configs.Load()
		if err != nil {
			return nil, err
		}
		result.Config = cfg
		return result, nil
	}

	cfg := model.DefaultConfig()
	if opts.Backend != "" {
		cfg.Storage.Backend = opts.Backend
	}
	cfg.Storage.Path = opts.Path
	if cfg.Storage.Backend == model.BackendS3 {
		if opts.Bucket == "" {
			return nil, kanerr.InvalidField("bucket", "required for the s3 backend")
		}
		cfg.Storage.S3.Bucket = opts.Bucket
		cfg.Storage.S3.Region = opts.Region
	}

	if err := s.configs.Save(cfg); err != nil {
		return nil, err
	}
	result.Config = cfg
	result.Created = true
	return result, nil
}
