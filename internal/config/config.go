package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Version is the application version
const Version = "0.3.0"

// DefaultCiphertext is the challenge text scanned when none is configured
const DefaultCiphertext = "G2pilVJccjJiQZ1poiM3iYZhj3I0IRbvj3wxomnoeOatVHUxZ2ozGKJgjXMzj2L" +
	"goOitBOM1dSDzHMatdRpmQZpidNehG29mkTxwmDJbGJxsjnVeQT9mTPSwSAOwnuWhSE" +
	"50ByMpcuJoqGstJOCxqHCtdvG3HJV0TOGuwOIyoOGhwOHgm2GhlZpyISJik3J/"

// LogConfig represents logging configuration
type LogConfig struct {
	Level  string `json:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `json:"format" mapstructure:"format"` // console, json
}

// StatusConfig represents the status HTTP server configuration
type StatusConfig struct {
	Enable    bool   `json:"enable" mapstructure:"enable"`
	Address   string `json:"address" mapstructure:"address"`
	Port      int    `json:"port" mapstructure:"port"`
	EnableH2C bool   `json:"enable_h2c" mapstructure:"enable_h2c"`
	JWTSecret string `json:"jwt_secret" mapstructure:"jwt_secret"`
	JWTExpire int    `json:"jwt_expire" mapstructure:"jwt_expire"` // hours
}

// Config represents the main configuration
type Config struct {
	Ciphertext     string       `json:"ciphertext" mapstructure:"ciphertext"`
	CiphertextFile string       `json:"ciphertext_file" mapstructure:"ciphertext_file"`
	StartKey       string       `json:"start_key" mapstructure:"start_key"` // identity or letters
	EndKey         string       `json:"end_key" mapstructure:"end_key"`     // identity or letters
	Workers        int          `json:"workers" mapstructure:"workers"`
	PerWorker      uint64       `json:"per_worker" mapstructure:"per_worker"`
	CheckEvery     uint64       `json:"check_every" mapstructure:"check_every"`
	DataDir        string       `json:"data_dir" mapstructure:"data_dir"`
	Persist        bool         `json:"persist" mapstructure:"persist"`
	Resume         bool         `json:"resume" mapstructure:"resume"`
	Log            LogConfig    `json:"log" mapstructure:"log"`
	Status         StatusConfig `json:"status" mapstructure:"status"`
}

var (
	cfg  *Config
	once sync.Once
)

func setDefaults(v *viper.Viper) {
	// Scan defaults
	v.SetDefault("ciphertext", DefaultCiphertext)
	v.SetDefault("ciphertext_file", "")
	v.SetDefault("start_key", "")
	v.SetDefault("end_key", "LIBITINA")
	v.SetDefault("workers", 4)
	v.SetDefault("per_worker", 20000000)
	v.SetDefault("check_every", 1<<16)

	// Storage defaults
	v.SetDefault("data_dir", "./data")
	v.SetDefault("persist", true)
	v.SetDefault("resume", false)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Status server defaults
	v.SetDefault("status.enable", false)
	v.SetDefault("status.address", "127.0.0.1")
	v.SetDefault("status.port", 5380)
	v.SetDefault("status.enable_h2c", false)
	v.SetDefault("status.jwt_secret", "")
	v.SetDefault("status.jwt_expire", 24)
}

// newViper creates a viper instance with defaults and environment binding.
// An empty path searches the default config locations.
func newViper(path string) *viper.Viper {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("json")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.vigenere-search")
	}

	setDefaults(v)

	// Environment variables
	v.SetEnvPrefix("VIGENERE_SEARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadFrom reads configuration from path, or from the default locations
// when path is empty. A missing default config file is not an error.
func LoadFrom(path string) (*Config, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && path == "" {
			log.Warn().Msg("Config file not found, using defaults")
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	c.normalize()
	return c, nil
}

// Load reads the process configuration once
func Load(path string) *Config {
	once.Do(func() {
		c, err := LoadFrom(path)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load config")
		}
		cfg = c
	})
	return cfg
}

func (c *Config) normalize() {
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.CheckEvery == 0 {
		c.CheckEvery = 1 << 16
	}
	c.Log.Level = strings.ToLower(c.Log.Level)
	c.Log.Format = strings.ToLower(c.Log.Format)
}

// GetStatusAddr returns the status server listen address
func (c *Config) GetStatusAddr() string {
	return fmt.Sprintf("%s:%d", c.Status.Address, c.Status.Port)
}

// IsAuthEnabled returns whether the status API requires a token
func (c *Config) IsAuthEnabled() bool {
	return c.Status.JWTSecret != ""
}
