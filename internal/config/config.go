package config

import (
	"fmt"
	"strings"
	"time"

	// Embedded zone database so report.timezone resolves on minimal images.
	_ "time/tzdata"

	"produce-reports/internal/report"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// Config is the full service configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Report   ReportConfig   `mapstructure:"report"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	AllowedOrigins  string        `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds the PostgreSQL connection string.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// LogConfig selects the log level and console output.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// ReportConfig holds the report timezone, collation locale and category order.
type ReportConfig struct {
	Timezone         string   `mapstructure:"timezone"`
	Locale           string   `mapstructure:"locale"`
	CategoryPriority []string `mapstructure:"category_priority"`
	Uncategorized    string   `mapstructure:"uncategorized"`
	TotalsByUnit     bool     `mapstructure:"totals_by_unit"`
}

// Load reads configuration from defaults, the optional file at path and the
// environment, in increasing precedence. Environment keys are the config
// keys upper-cased with dots replaced by underscores (REPORT_TIMEZONE).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Older deployments set ALLOWED_ORIGINS without a prefix.
	_ = v.BindEnv("server.allowed_origins", "SERVER_ALLOWED_ORIGINS", "ALLOWED_ORIGINS")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.allowed_origins", "")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("database.url", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("report.timezone", "America/Bogota")
	v.SetDefault("report.locale", "es")
	v.SetDefault("report.category_priority", report.DefaultCategoryPriority)
	v.SetDefault("report.uncategorized", report.DefaultUncategorized)
	v.SetDefault("report.totals_by_unit", false)
}

// Validate checks values that would otherwise fail late, at report time.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port must not be empty")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive, got %s", c.Server.ShutdownTimeout)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := language.Parse(c.Report.Locale); err != nil {
		return fmt.Errorf("invalid report.locale %q: %w", c.Report.Locale, err)
	}
	return nil
}

// Location resolves report.timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Report.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid report.timezone %q: %w", c.Report.Timezone, err)
	}
	return loc, nil
}

// ReportOptions converts the report section into report.Options. Load has
// already validated the values it parses.
func (c *Config) ReportOptions() report.Options {
	opts := report.DefaultOptions()
	if loc, err := c.Location(); err == nil {
		opts.Location = loc
	}
	if tag, err := language.Parse(c.Report.Locale); err == nil {
		opts.Locale = tag
	}
	if len(c.Report.CategoryPriority) > 0 {
		opts.CategoryPriority = c.Report.CategoryPriority
	}
	if c.Report.Uncategorized != "" {
		opts.Uncategorized = c.Report.Uncategorized
	}
	opts.TotalsByUnit = c.Report.TotalsByUnit
	return opts
}
