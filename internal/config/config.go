package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/PIN-11-07/Turboo/internal/eventbus"
)

// Feed sources
const (
	SourceREST     = "rest"
	SourcePostgres = "postgres"
)

// Environment overrides
const (
	EnvSupabaseURL = "TURBOO_SUPABASE_URL"
	EnvAnonKey     = "TURBOO_SUPABASE_ANON_KEY"
	EnvDatabaseURL = "TURBOO_DATABASE_URL"
	EnvPageSize    = "TURBOO_PAGE_SIZE"
	EnvSource      = "TURBOO_SOURCE"
)

const (
	appDir      = "turboo"
	fileName    = "config.toml"
	sessionFile = "session.json"
	logFile     = "turboo.log"
)

// Config represents the application configuration
type Config struct {
	Version    int             `toml:"version"`
	Backend    BackendSettings `toml:"backend"`
	Feed       FeedSettings    `toml:"feed"`
	UISettings UISettings      `toml:"ui"`
}

// BackendSettings locates the hosted backend
type BackendSettings struct {
	URL            string `toml:"url"`
	AnonKey        string `toml:"anon_key"`
	DatabaseURL    string `toml:"database_url,omitempty"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// FeedSettings configures the listing feed
type FeedSettings struct {
	Source   string `toml:"source"`
	PageSize int    `toml:"page_size"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	LoadMoreThreshold int  `toml:"load_more_threshold"`
	ShowImageURLs     bool `toml:"show_image_urls"`
}

// Timeout returns the per-request timeout
func (c *Config) Timeout() time.Duration {
	if c.Backend.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

// Validate checks that the selected feed source can be reached
func (c *Config) Validate() error {
	var errs []error
	if c.Backend.URL == "" {
		errs = append(errs, fmt.Errorf("backend url is not set (%s)", EnvSupabaseURL))
	}
	if c.Backend.AnonKey == "" {
		errs = append(errs, fmt.Errorf("backend anon key is not set (%s)", EnvAnonKey))
	}
	switch c.Feed.Source {
	case SourceREST:
	case SourcePostgres:
		if c.Backend.DatabaseURL == "" {
			errs = append(errs, fmt.Errorf("postgres source needs a database url (%s)", EnvDatabaseURL))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown feed source %q", c.Feed.Source))
	}
	if c.Feed.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("page size must be positive, got %d", c.Feed.PageSize))
	}
	return errors.Join(errs...)
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
	lookup   func(string) (string, bool)
}

// Dir returns the turboo config directory
func Dir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, appDir)
}

// DefaultPath is the config file used when --config is not given
func DefaultPath() string { return filepath.Join(Dir(), fileName) }

// SessionPath is where the signed-in session is kept
func SessionPath() string { return filepath.Join(Dir(), sessionFile) }

// LogPath is the default log file
func LogPath() string { return filepath.Join(Dir(), logFile) }

// NewConfigService creates a config service reading path, or DefaultPath when path is empty
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{
		filePath: path,
		lookup:   os.LookupEnv,
	}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigService(path).(*configService)
	cs.bus = bus
	return cs
}

// LoadDotEnv loads KEY=value pairs from the given files into the process
// environment. Missing files are skipped and existing variables win.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Load loads the configuration from file, then applies environment overrides
func (cs *configService) Load() (*Config, error) {
	var cfg *Config
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		// Return default config if file doesn't exist
		cfg = DefaultConfig()
	} else {
		loaded, err := cs.LoadFromPath(cs.filePath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := cs.applyEnv(cfg); err != nil {
		return nil, err
	}

	// Publish ConfigLoaded event if bus is available
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: cs.filePath})
	}

	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	// Publish ConfigSaved event if bus is available
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{})
	}

	return nil
}

// LoadFromPath loads configuration from a specific path
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	// Check if config file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse config on top of the defaults so omitted keys keep their default
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Feed.Source = strings.ToLower(strings.TrimSpace(cfg.Feed.Source))

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	// Ensure config directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The file may hold the anon key and a database url
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (cs *configService) applyEnv(cfg *Config) error {
	if v, ok := cs.lookup(EnvSupabaseURL); ok && v != "" {
		cfg.Backend.URL = v
	}
	if v, ok := cs.lookup(EnvAnonKey); ok && v != "" {
		cfg.Backend.AnonKey = v
	}
	if v, ok := cs.lookup(EnvDatabaseURL); ok && v != "" {
		cfg.Backend.DatabaseURL = v
	}
	if v, ok := cs.lookup(EnvSource); ok && v != "" {
		cfg.Feed.Source = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := cs.lookup(EnvPageSize); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", EnvPageSize, err)
		}
		cfg.Feed.PageSize = n
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Backend: BackendSettings{
			TimeoutSeconds: 15,
		},
		Feed: FeedSettings{
			Source:   SourceREST,
			PageSize: 10,
		},
		UISettings: UISettings{
			LoadMoreThreshold: 2,
		},
	}
}
