package config

import (
	"os"
	"path/filepath"
)

const (
	HomeEnvVar     = "PASJESPLANK_HOME"
	DefaultHomeDir = ".config/pasjesplank"
	DataDir        = "data"
	ConfigFileName = "config.toml"
	SQLiteFileName = "plank.db"
	FaviconFile    = "favicon.svg"
)

// Paths provides path resolution for PasjesPlank files.
type Paths struct {
	home    string
	dataDir string // Custom data dir from config or flag, empty for default
}

// NewPaths creates a new Paths resolver rooted at home.
// An empty dataDir means <home>/data.
func NewPaths(home string, dataDir string) *Paths {
	return &Paths{
		home:    home,
		dataDir: dataDir,
	}
}

// DefaultPaths resolves the home directory from the environment.
func DefaultPaths() *Paths {
	return NewPaths(HomePath(), "")
}

// WithDataDir returns a copy using the given data dir, if non-empty.
func (p *Paths) WithDataDir(dataDir string) *Paths {
	if dataDir == "" {
		return p
	}
	return NewPaths(p.home, dataDir)
}

// Home returns the root directory for PasjesPlank files.
func (p *Paths) Home() string {
	return p.home
}

// ConfigPath returns the config file path.
func (p *Paths) ConfigPath() string {
	return filepath.Join(p.home, ConfigFileName)
}

// DataRoot returns the directory holding the persisted collection.
func (p *Paths) DataRoot() string {
	if p.dataDir != "" {
		if filepath.IsAbs(p.dataDir) {
			return p.dataDir
		}
		return filepath.Join(p.home, p.dataDir)
	}
	return filepath.Join(p.home, DataDir)
}

// SlotPath returns the file path for a storage slot of the file medium.
func (p *Paths) SlotPath(slot string) string {
	return filepath.Join(p.DataRoot(), slot+".json")
}

// SQLitePath returns the default database file for the sqlite medium.
func (p *Paths) SQLitePath() string {
	return filepath.Join(p.DataRoot(), SQLiteFileName)
}

// FaviconPath returns the path of an optional custom favicon.
func (p *Paths) FaviconPath() string {
	return filepath.Join(p.home, FaviconFile)
}

// HomePath returns $PASJESPLANK_HOME, or ~/.config/pasjesplank.
func HomePath() string {
	if home := os.Getenv(HomeEnvVar); home != "" {
		return home
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return DefaultHomeDir
	}
	return filepath.Join(userHome, DefaultHomeDir)
}
