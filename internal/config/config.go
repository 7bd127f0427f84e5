package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds the runtime settings for the report server.
type Config struct {
	Port           string   `mapstructure:"port"`
	MaxUploadBytes int64    `mapstructure:"max_upload_bytes"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	LogLevel       string   `mapstructure:"log_level"`
	DBPreviewRows  int      `mapstructure:"db_preview_rows"`
}

// Load reads configuration from CSVREPORT_* environment variables,
// falling back to defaults suitable for local development.
func Load() Config {
	v := viper.New()

	v.SetDefault("port", "8001")
	v.SetDefault("max_upload_bytes", 25<<20)
	v.SetDefault("allowed_origins", []string{"http://localhost:3000", "http://127.0.0.1:3000"})
	v.SetDefault("log_level", "info")
	v.SetDefault("db_preview_rows", 1000)

	v.SetEnvPrefix("CSVREPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Defaults are always unmarshalable; a failure here means a
		// malformed env override. Fall back to defaults.
		return Config{
			Port:           "8001",
			MaxUploadBytes: 25 << 20,
			AllowedOrigins: []string{"http://localhost:3000"},
			LogLevel:       "info",
			DBPreviewRows:  1000,
		}
	}
	return cfg
}
