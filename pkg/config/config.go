package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	RendererBrowser = "browser"
	RendererHTTP    = "http"

	NotifySlack = "slack"
	NotifyLog   = "log"
	NotifyNone  = "none"
)

// Config holds all configuration options for a wallgrab run
type Config struct {
	// Listing page to scrape
	Listing ListingConfig `yaml:"listing" json:"listing"`

	// Remote catalog of already stored images
	Inventory InventoryConfig `yaml:"inventory" json:"inventory"`

	// Local destination for downloaded images
	Storage StorageConfig `yaml:"storage" json:"storage"`

	// Download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Chat notifications
	Notifications NotificationConfig `yaml:"notifications" json:"notifications"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ListingConfig describes the page that is scraped and how it is rendered
type ListingConfig struct {
	URL         string        `yaml:"url" json:"url"`
	Renderer    string        `yaml:"renderer" json:"renderer"`
	UserAgent   string        `yaml:"user_agent" json:"user_agent"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`
	SettleDelay time.Duration `yaml:"settle_delay" json:"settle_delay"`
}

// InventoryConfig holds the GraphQL catalog endpoint
type InventoryConfig struct {
	Endpoint string        `yaml:"endpoint" json:"endpoint"`
	Timeout  time.Duration `yaml:"timeout" json:"timeout"`
}

// StorageConfig holds the output directory
type StorageConfig struct {
	Directory string `yaml:"directory" json:"directory"`
}

// DownloadConfig holds download-specific configuration.
// Concurrency 0 starts every download at once.
type DownloadConfig struct {
	Concurrency int           `yaml:"concurrency" json:"concurrency"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`
}

// NotificationConfig holds the messaging channel settings
type NotificationConfig struct {
	Type    string        `yaml:"type" json:"type"`
	Channel string        `yaml:"channel" json:"channel"`
	Token   string        `yaml:"token" json:"token"`
	APIURL  string        `yaml:"api_url" json:"api_url"`
	JobName string        `yaml:"job_name" json:"job_name"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Listing: ListingConfig{
			URL:         "https://old.reddit.com/r/widescreenwallpaper",
			Renderer:    RendererBrowser,
			UserAgent:   "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
			Timeout:     60 * time.Second,
			SettleDelay: 2 * time.Second,
		},
		Inventory: InventoryConfig{
			Endpoint: "",
			Timeout:  30 * time.Second,
		},
		Storage: StorageConfig{
			Directory: "./downloads",
		},
		Download: DownloadConfig{
			Concurrency: 0,
			Timeout:     2 * time.Minute,
		},
		Notifications: NotificationConfig{
			Type:    NotifySlack,
			Channel: "backgrounds",
			JobName: "wallgrab",
			Timeout: 15 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// firstEnv returns the first non-empty value among the given variables
func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// LoadFromEnv loads configuration from environment variables.
// NAS_ENDPOINT, BACKGROUNDS_DIR and LOGGER_SLACK_BOT are honored for older deployments.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("WALLGRAB_LISTING_URL"); v != "" {
		c.Listing.URL = v
	}
	if v := os.Getenv("WALLGRAB_RENDERER"); v != "" {
		c.Listing.Renderer = strings.ToLower(v)
	}

	if v := firstEnv("WALLGRAB_INVENTORY_ENDPOINT", "NAS_ENDPOINT"); v != "" {
		c.Inventory.Endpoint = v
	}

	if v := firstEnv("WALLGRAB_STORAGE_DIR", "BACKGROUNDS_DIR"); v != "" {
		c.Storage.Directory = v
	}

	if v := os.Getenv("WALLGRAB_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid WALLGRAB_CONCURRENCY %q: %w", v, err)
		}
		c.Download.Concurrency = n
	}

	if v := firstEnv("WALLGRAB_SLACK_TOKEN", "LOGGER_SLACK_BOT"); v != "" {
		c.Notifications.Token = v
	}
	if v := os.Getenv("WALLGRAB_SLACK_CHANNEL"); v != "" {
		c.Notifications.Channel = v
	}
	if v := os.Getenv("WALLGRAB_NOTIFY"); v != "" {
		c.Notifications.Type = strings.ToLower(v)
	}

	if v := os.Getenv("WALLGRAB_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".wallgrab.yaml",
		".wallgrab.yml",
		filepath.Join(home, ".config", "wallgrab", "config.yaml"),
		filepath.Join(home, ".config", "wallgrab", "config.yml"),
		filepath.Join(home, ".wallgrab.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Listing.URL == "" {
		errs = append(errs, errors.New("listing URL is required"))
	} else if u, err := url.Parse(c.Listing.URL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("listing URL %q is not an absolute URL", c.Listing.URL))
	}
	switch c.Listing.Renderer {
	case RendererBrowser, RendererHTTP:
	default:
		errs = append(errs, fmt.Errorf("unknown renderer %q", c.Listing.Renderer))
	}
	if c.Listing.Timeout <= 0 {
		errs = append(errs, errors.New("listing timeout must be positive"))
	}
	if c.Listing.SettleDelay < 0 {
		errs = append(errs, errors.New("listing settle delay cannot be negative"))
	}

	if c.Inventory.Timeout <= 0 {
		errs = append(errs, errors.New("inventory timeout must be positive"))
	}

	if c.Storage.Directory == "" {
		errs = append(errs, errors.New("storage directory is required"))
	}

	if c.Download.Concurrency < 0 {
		errs = append(errs, errors.New("download concurrency cannot be negative"))
	}
	if c.Download.Timeout <= 0 {
		errs = append(errs, errors.New("download timeout must be positive"))
	}

	switch c.Notifications.Type {
	case NotifySlack:
		if c.Notifications.Channel == "" {
			errs = append(errs, errors.New("notification channel is required for slack"))
		}
	case NotifyLog, NotifyNone:
	default:
		errs = append(errs, fmt.Errorf("invalid notification type %q", c.Notifications.Type))
	}
	if c.Notifications.Timeout <= 0 {
		errs = append(errs, errors.New("notification timeout must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if v, ok := flags["listing-url"].(string); ok && v != "" {
		c.Listing.URL = v
	}
	if v, ok := flags["renderer"].(string); ok && v != "" {
		c.Listing.Renderer = strings.ToLower(v)
	}
	if v, ok := flags["endpoint"].(string); ok && v != "" {
		c.Inventory.Endpoint = v
	}
	if v, ok := flags["storage-dir"].(string); ok && v != "" {
		c.Storage.Directory = v
	}
	if v, ok := flags["concurrency"].(int); ok && v >= 0 {
		c.Download.Concurrency = v
	}
	if v, ok := flags["notify"].(string); ok && v != "" {
		c.Notifications.Type = strings.ToLower(v)
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".env"))
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".wallgrab.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
