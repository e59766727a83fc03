// Package config loads reconciler settings from the environment and an
// optional .env file.
package config

import (
	"reflect"
	"strings"

	"transaction-reconciler/internal/logger"
	"transaction-reconciler/internal/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Ingest controls how delimited input is normalized.
	Ingest IngestConfig `mapstructure:"ingest"`
	// Storage holds configuration for s3:// inputs.
	Storage storage.Config `mapstructure:"storage"`
	// Server holds configuration for the HTTP surface.
	Server ServerConfig `mapstructure:"server"`
	// Output controls report serialization.
	Output OutputConfig `mapstructure:"output"`
}

// IngestConfig controls the record normalizer.
type IngestConfig struct {
	// PrimaryIDField is the preferred identifier header.
	PrimaryIDField string `mapstructure:"primary_id_field" default:"providerTransactionId"`
	// FallbackIDField is used when the primary identifier is empty.
	FallbackIDField string `mapstructure:"fallback_id_field" default:"transactionId"`
	// Delimiter is the single-character field separator.
	Delimiter string `mapstructure:"delimiter" default:","`
}

// DelimiterRune returns the configured delimiter, or zero when unset.
func (c IngestConfig) DelimiterRune() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return 0
}

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// MaxBodyBytes caps request payloads.
	MaxBodyBytes int64 `mapstructure:"max_body_bytes" default:"10485760"`
}

// OutputConfig controls report serialization.
type OutputConfig struct {
	// Format is json or yaml.
	Format string `mapstructure:"format" default:"json"`
	// Indent is the JSON indentation width.
	Indent int `mapstructure:"indent" default:"2"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." || path == "" {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Load(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. LOG_LEVEL -> log.level)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues sets viper defaults from the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
