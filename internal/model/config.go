package model

// Config represents the user's PasjesPlank configuration.
// Stored at <home>/config.toml.
// Schema changes require a version bump; see internal/version/version.go.
type Config struct {
	Schema  string        `toml:"schema"`
	Storage StorageConfig `toml:"storage"`
	Server  ServerConfig  `toml:"server"`
	Gesture GestureConfig `toml:"gesture"`
	Toast   ToastConfig   `toml:"toast"`
	Barcode BarcodeConfig `toml:"barcode"`
	Log     LogConfig     `toml:"log"`
}

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendS3     = "s3"
	BackendMemory = "memory"
)

// StorageConfig selects and configures the persistence medium.
type StorageConfig struct {
	Backend string   `toml:"backend"`
	Slot    string   `toml:"slot,omitempty"` // Key holding the whole collection
	Path    string   `toml:"path,omitempty"` // Data dir (file) or database file (sqlite)
	S3      S3Config `toml:"s3,omitempty"`
}

// S3Config holds the S3 medium settings.
type S3Config struct {
	Bucket          string `toml:"bucket,omitempty"`
	Region          string `toml:"region,omitempty"`
	Endpoint        string `toml:"endpoint,omitempty"` // For MinIO and friends
	Prefix          string `toml:"prefix,omitempty"`
	PathStyle       bool   `toml:"path_style,omitempty"`
	AccessKeyID     string `toml:"access_key_id,omitempty"`
	SecretAccessKey string `toml:"secret_access_key,omitempty"`
}

// ServerConfig configures `plank serve`.
type ServerConfig struct {
	Port int `toml:"port"`
}

// GestureConfig tunes the long-press drag gesture.
type GestureConfig struct {
	ArmDelayMillis int     `toml:"arm_delay_ms"`
	Tolerance      float64 `toml:"tolerance"`
	CloneScale     float64 `toml:"clone_scale"`
}

// ToastConfig tunes confirmation messages.
type ToastConfig struct {
	DurationMillis int `toml:"duration_ms"`
}

// BarcodeConfig holds barcode rendering options.
type BarcodeConfig struct {
	Width        int  `toml:"width"`
	Height       int  `toml:"height"`
	Margin       *int `toml:"margin,omitempty"` // nil means the default; 0 is a valid margin
	DisplayValue bool `toml:"display_value"`
}

// LogConfig selects the logger flavor ("development" or "production").
type LogConfig struct {
	Env string `toml:"env"`
}

// DefaultSlot is the storage key of the card collection.
const DefaultSlot = "klantenkaarten"

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{Backend: BackendFile, Slot: DefaultSlot},
		Server:  ServerConfig{Port: 3000},
		Gesture: GestureConfig{ArmDelayMillis: 500, Tolerance: 10, CloneScale: 1.05},
		Toast:   ToastConfig{DurationMillis: 2500},
		Barcode: BarcodeConfig{Width: 2, Height: 80, Margin: intPtr(10)},
		Log:     LogConfig{Env: "development"},
	}
}

// ApplyDefaults fills zero values with defaults, so partial files stay usable.
func (c *Config) ApplyDefaults() {
	d := DefaultConfig()
	if c.Storage.Backend == "" {
		c.Storage.Backend = d.Storage.Backend
	}
	if c.Storage.Slot == "" {
		c.Storage.Slot = d.Storage.Slot
	}
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Gesture.ArmDelayMillis <= 0 {
		c.Gesture.ArmDelayMillis = d.Gesture.ArmDelayMillis
	}
	if c.Gesture.Tolerance <= 0 {
		c.Gesture.Tolerance = d.Gesture.Tolerance
	}
	if c.Gesture.CloneScale <= 0 {
		c.Gesture.CloneScale = d.Gesture.CloneScale
	}
	if c.Toast.DurationMillis <= 0 {
		c.Toast.DurationMillis = d.Toast.DurationMillis
	}
	if c.Barcode.Width <= 0 {
		c.Barcode.Width = d.Barcode.Width
	}
	if c.Barcode.Height <= 0 {
		c.Barcode.Height = d.Barcode.Height
	}
	if c.Barcode.Margin == nil || *c.Barcode.Margin < 0 {
		c.Barcode.Margin = d.Barcode.Margin
	}
	if c.Log.Env == "" {
		c.Log.Env = d.Log.Env
	}
}

func intPtr(v int) *int {
	return &v
}
