package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultTable         = "Decent Espresso Log"
	DefaultShotsPerBatch = 5
	// Airtable rejects create requests with more than 10 records.
	maxShotsPerBatch = 10
)

// Config holds everything read from the environment (and optional
// configs/config.yml) once at startup.
type Config struct {
	Visualizer Visualizer
	Airtable   Airtable
	Fields     Fields
	Sync       Sync

	HMACSecret  string
	LogLevel    string
	LogFormat   string // console | json
	JournalPath string // empty disables the sqlite journal
	Port        string
}

type Visualizer struct {
	BaseURL  string
	User     string
	Password string
	Timeout  time.Duration
}

type Airtable struct {
	Base    string
	APIKey  string
	Table   string
	Timeout time.Duration
}

// Fields are the link values stamped on every uploaded record.
type Fields struct {
	CoffeeMachine string
	Grinder       string
}

type Sync struct {
	ShotsPerBatch int
	Debug         bool   // dry-run: map everything, write nothing
	TestShot      string // upload just this id, skipping reconciliation
}

// Load reads the configuration through a fresh viper instance bound to the
// process environment and validates it.
func Load() (*Config, error) {
	v := viper.New()
	v.AddConfigPath("configs") // configs/config.yml
	v.SetConfigName("config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	return FromViper(v)
}

// FromViper builds a Config from an already prepared viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("airtable_table", DefaultTable)
	v.SetDefault("shots_per_batch", DefaultShotsPerBatch)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("port", "8080")
	v.SetDefault("http_timeout", 30*time.Second)

	cfg := &Config{
		Visualizer: Visualizer{
			BaseURL:  strings.TrimRight(v.GetString("visualizer_base_url"), "/"),
			User:     v.GetString("visualizer_user"),
			Password: v.GetString("visualizer_password"),
			Timeout:  v.GetDuration("http_timeout"),
		},
		Airtable: Airtable{
			Base:    v.GetString("airtable_base"),
			APIKey:  v.GetString("airtable_api_key"),
			Table:   v.GetString("airtable_table"),
			Timeout: v.GetDuration("http_timeout"),
		},
		Fields: Fields{
			CoffeeMachine: v.GetString("field_coffee_machine"),
			Grinder:       v.GetString("field_grinder"),
		},
		Sync: Sync{
			ShotsPerBatch: v.GetInt("shots_per_batch"),
			Debug:         isSet(v.GetString("debug")),
			TestShot:      v.GetString("test_shot"),
		},
		HMACSecret:  v.GetString("hmac_secret"),
		LogLevel:    v.GetString("log_level"),
		LogFormat:   v.GetString("log_format"),
		JournalPath: v.GetString("journal_path"),
		Port:        v.GetString("port"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first missing or out-of-range setting.
func (c *Config) Validate() error {
	if c.Airtable.Base == "" {
		// returned to callers as the 500 message, period included
		return errors.New("AIRTABLE_BASE environment variable not defined.")
	}
	if c.Airtable.Table == "" {
		return errors.New("AIRTABLE_TABLE must not be empty")
	}
	if c.Visualizer.BaseURL == "" {
		return errors.New("VISUALIZER_BASE_URL environment variable not defined")
	}
	if c.Sync.ShotsPerBatch < 1 || c.Sync.ShotsPerBatch > maxShotsPerBatch {
		return fmt.Errorf("SHOTS_PER_BATCH must be between 1 and %d, got %d", maxShotsPerBatch, c.Sync.ShotsPerBatch)
	}
	if c.Visualizer.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.Visualizer.Timeout)
	}
	return nil
}

// isSet treats any non-empty value other than an explicit false as enabled.
func isSet(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "false", "no", "off":
		return false
	}
	return true
}
