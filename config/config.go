package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultBaseURL is the public OpenFoods API origin
const DefaultBaseURL = "https://opentable-dex-ios-test-d645a49e3287.herokuapp.com/api/v1/Mpacini"

// Config holds all configuration for the application
type Config struct {
	API    APIConfig    `mapstructure:"api"`
	Log    LogConfig    `mapstructure:"log"`
	Server ServerConfig `mapstructure:"server"`
	Store  StoreConfig  `mapstructure:"store"`
	UI     UIConfig     `mapstructure:"ui"`
}

// APIConfig holds OpenFoods API client configuration
type APIConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`  // connect + send + headers
	ResourceTimeout time.Duration `mapstructure:"resource_timeout"` // whole exchange
	UserAgent       string        `mapstructure:"user_agent"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// ServerConfig holds fixture server configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	BasePath       string   `mapstructure:"base_path"`
}

// StoreConfig holds fixture server storage configuration
type StoreConfig struct {
	Type     string `mapstructure:"type"` // "memory" or "bbolt"
	Path     string `mapstructure:"path"`
	SeedFile string `mapstructure:"seed_file"`
}

// UIConfig holds CLI rendering options
type UIConfig struct {
	NoColor bool `mapstructure:"no_color"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	return LoadWithFlags(nil)
}

// LoadWithFlags is Load with command line flags bound on top. Flag names use
// dots for nesting, e.g. "api.base_url".
func LoadWithFlags(flags *pflag.FlagSet) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/openfoods/")

	// Environment variable settings
	v.SetEnvPrefix("OPENFOODS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("error binding flags: %w", err)
		}
	}

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("api.request_timeout", "30s")
	v.SetDefault("api.resource_timeout", "30s")
	v.SetDefault("api.user_agent", "OpenFoods/1.0")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})
	v.SetDefault("server.base_path", "/api/v1/local")

	// Store defaults
	v.SetDefault("store.type", "memory")
	v.SetDefault("store.path", "./data/foods.db")
	v.SetDefault("store.seed_file", "")

	v.SetDefault("ui.no_color", false)
}

// validate validates the configuration
func validate(config *Config) error {
	u, err := url.Parse(config.API.BaseURL)
	if err != nil {
		return fmt.Errorf("API base URL is not a valid URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("API base URL must be an absolute http(s) URL, got: %q", config.API.BaseURL)
	}

	if config.API.RequestTimeout <= 0 || config.API.ResourceTimeout <= 0 {
		return fmt.Errorf("API timeouts must be positive")
	}

	if config.Store.Type != "memory" && config.Store.Type != "bbolt" {
		return fmt.Errorf("store type must be 'memory' or 'bbolt', got: %s", config.Store.Type)
	}

	if config.Store.Type == "bbolt" && strings.TrimSpace(config.Store.Path) == "" {
		return fmt.Errorf("store path is required when store type is 'bbolt'")
	}

	if !strings.HasPrefix(config.Server.BasePath, "/") {
		return fmt.Errorf("server base path must start with '/', got: %q", config.Server.BasePath)
	}

	return nil
}
