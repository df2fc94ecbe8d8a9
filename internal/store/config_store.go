package store

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pasjesplank/plank/internal/config"
	"github.com/pasjesplank/plank/internal/model"
	"github.com/pasjesplank/plank/internal/version"
)

// FileConfigStore implements ConfigStore using a TOML file.
type FileConfigStore struct {
	paths *config.Paths
}

// NewConfigStore creates a new config store.
func NewConfigStore(paths *config.Paths) *FileConfigStore {
	return &FileConfigStore{paths: paths}
}

// Load reads the config from disk.
// Returns defaults if the file doesn't exist.
func (s *FileConfigStore) Load() (*model.Config, error) {
	path := s.paths.ConfigPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg model.Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Strict version validation (only if file exists)
	if cfg.Schema == "" {
		return nil, version.MissingConfigSchema(path)
	}
	if cfg.Schema != version.CurrentConfigSchema() {
		return nil, version.InvalidConfigSchema(path, cfg.Schema)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// Save writes the config to disk.
func (s *FileConfigStore) Save(cfg *model.Config) error {
	// Stamp current schema version
	cfg.Schema = version.CurrentConfigSchema()

	path := s.paths.ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists writes the default config if no file exists yet.
func (s *FileConfigStore) EnsureExists() error {
	if _, err := os.Stat(s.paths.ConfigPath()); os.IsNotExist(err) {
		return s.Save(model.DefaultConfig())
	}
	return nil
}
