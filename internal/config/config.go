// Package config loads the CLI configuration from an optional YAML file, a
// .env file and the process environment, in increasing order of precedence.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"propertytax/internal/assessment"
	"propertytax/internal/database"
	"propertytax/internal/export"
	"propertytax/internal/notify"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// DefaultFile is read when no --config flag is given; it may be absent.
const DefaultFile = "propertytax.yaml"

// Source drivers.
const (
	SourceSample = "sample"
	SourceFile   = "file"
)

type Config struct {
	Source    SourceConfig   `yaml:"source"`
	Database  DatabaseConfig `yaml:"database"`
	Analysis  AnalysisConfig `yaml:"analysis"`
	Export    ExportConfig   `yaml:"export"`
	SMTP      SMTPConfig     `yaml:"smtp"`
	Logging   LoggingConfig  `yaml:"logging"`
	Metrics   MetricsConfig  `yaml:"metrics"`
	SavedPINs string         `yaml:"saved_pins"`
}

// SourceConfig selects where property and rate data come from. Driver is
// sample, file, oracle, postgres or sqlite.
type SourceConfig struct {
	Driver        string `yaml:"driver"`
	PropertyFile  string `yaml:"property_file"`
	RateFile      string `yaml:"rate_file"`
	RateShapefile string `yaml:"rate_shapefile"`
	OverlayFile   string `yaml:"overlay_file"`
}

type DatabaseConfig struct {
	Host           string `yaml:"host"`
	Port           string `yaml:"port"`
	Service        string `yaml:"service"`
	Username       string `yaml:"username"`
	Password       string `yaml:"password"`
	WalletLocation string `yaml:"wallet_location"`
	SSLMode        string `yaml:"sslmode"`
	Path           string `yaml:"path"`
}

type AnalysisConfig struct {
	Override            string `yaml:"override"`
	Workers             int    `yaml:"workers"`
	AnalyzeCurrentTaxes bool   `yaml:"analyze_current_taxes"`
	IncomeApproach      bool   `yaml:"income_approach"`
}

type ExportConfig struct {
	Dir string   `yaml:"dir"`
	S3  S3Config `yaml:"s3"`
}

type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Prefix    string `yaml:"prefix"`
	Endpoint  string `yaml:"endpoint"`
	PathStyle bool   `yaml:"path_style"`
}

type SMTPConfig struct {
	Server   string   `yaml:"server"`
	Port     int      `yaml:"port"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	From     string   `yaml:"from"`
	To       []string `yaml:"to"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Source: SourceConfig{Driver: SourceSample},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    "1521",
			Service: "XE",
		},
		Analysis:  AnalysisConfig{Override: string(assessment.Auto), Workers: 4, AnalyzeCurrentTaxes: true},
		Export:    ExportConfig{Dir: "exports", S3: S3Config{Region: "us-east-1"}},
		SMTP:      SMTPConfig{Port: 587},
		Logging:   LoggingConfig{Level: "info"},
		SavedPINs: "data/saved_pins.txt",
	}
}

// Load reads path (skipped when it does not exist and optional is true), then
// the .env file, then environment overrides, and validates the result.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", path, err)
			}
		case os.IsNotExist(err) && optional:
		default:
			return cfg, err
		}
	}

	// A missing .env is fine; an unreadable one is not.
	if err := loadEnvFile(".env"); err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// loadEnvFile reads environment variables from a .env file
func loadEnvFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if idx := strings.Index(line, "="); idx > 0 {
			key := strings.TrimSpace(line[:idx])
			value := strings.TrimSpace(line[idx+1:])
			if len(value) >= 2 && (value[0] == '"' && value[len(value)-1] == '"') {
				value = value[1 : len(value)-1]
			}

			// Only set if not already set in environment
			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	}
	return scanner.Err()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func applyEnv(c *Config) {
	c.Source.Driver = getEnvOrDefault("PROPERTYTAX_SOURCE", c.Source.Driver)
	c.Source.PropertyFile = getEnvOrDefault("PROPERTYTAX_PROPERTY_FILE", c.Source.PropertyFile)
	c.Source.RateFile = getEnvOrDefault("PROPERTYTAX_RATE_FILE", c.Source.RateFile)
	c.Source.RateShapefile = getEnvOrDefault("PROPERTYTAX_RATE_SHAPEFILE", c.Source.RateShapefile)
	c.Source.OverlayFile = getEnvOrDefault("PROPERTYTAX_OVERLAY_FILE", c.Source.OverlayFile)

	// DB_* names are shared with the dataset tooling.
	c.Database.Host = getEnvOrDefault("DB_HOST", c.Database.Host)
	c.Database.Port = getEnvOrDefault("DB_PORT", c.Database.Port)
	c.Database.Service = getEnvOrDefault("DB_SERVICE", c.Database.Service)
	c.Database.Username = getEnvOrDefault("DB_USERNAME", c.Database.Username)
	c.Database.Password = getEnvOrDefault("DB_PASSWORD", c.Database.Password)
	c.Database.WalletLocation = getEnvOrDefault("DB_WALLET_LOCATION", c.Database.WalletLocation)
	c.Database.SSLMode = getEnvOrDefault("DB_SSLMODE", c.Database.SSLMode)
	c.Database.Path = getEnvOrDefault("DB_PATH", c.Database.Path)

	c.Analysis.Override = getEnvOrDefault("PROPERTYTAX_OVERRIDE", c.Analysis.Override)
	c.Analysis.Workers = getEnvInt("PROPERTYTAX_WORKERS", c.Analysis.Workers)
	c.Analysis.AnalyzeCurrentTaxes = getEnvBool("PROPERTYTAX_ANALYZE_CURRENT_TAXES", c.Analysis.AnalyzeCurrentTaxes)
	c.Analysis.IncomeApproach = getEnvBool("PROPERTYTAX_INCOME_APPROACH", c.Analysis.IncomeApproach)

	c.Export.Dir = getEnvOrDefault("PROPERTYTAX_EXPORT_DIR", c.Export.Dir)
	c.Export.S3.Bucket = getEnvOrDefault("PROPERTYTAX_S3_BUCKET", c.Export.S3.Bucket)
	c.Export.S3.Region = getEnvOrDefault("PROPERTYTAX_S3_REGION", c.Export.S3.Region)
	c.Export.S3.Prefix = getEnvOrDefault("PROPERTYTAX_S3_PREFIX", c.Export.S3.Prefix)
	c.Export.S3.Endpoint = getEnvOrDefault("PROPERTYTAX_S3_ENDPOINT", c.Export.S3.Endpoint)
	c.Export.S3.PathStyle = getEnvBool("PROPERTYTAX_S3_PATH_STYLE", c.Export.S3.PathStyle)

	c.SMTP.Server = getEnvOrDefault("PROPERTYTAX_SMTP_SERVER", c.SMTP.Server)
	c.SMTP.Port = getEnvInt("PROPERTYTAX_SMTP_PORT", c.SMTP.Port)
	c.SMTP.Username = getEnvOrDefault("PROPERTYTAX_SMTP_USERNAME", c.SMTP.Username)
	c.SMTP.Password = getEnvOrDefault("PROPERTYTAX_SMTP_PASSWORD", c.SMTP.Password)
	c.SMTP.From = getEnvOrDefault("PROPERTYTAX_SMTP_FROM", c.SMTP.From)
	if to := os.Getenv("PROPERTYTAX_SMTP_TO"); to != "" {
		c.SMTP.To = nil
		for _, addr := range strings.Split(to, ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				c.SMTP.To = append(c.SMTP.To, addr)
			}
		}
	}

	c.Logging.Level = getEnvOrDefault("PROPERTYTAX_LOG_LEVEL", c.Logging.Level)
	c.Logging.JSON = getEnvBool("PROPERTYTAX_LOG_JSON", c.Logging.JSON)
	c.Metrics.Textfile = getEnvOrDefault("PROPERTYTAX_METRICS_TEXTFILE", c.Metrics.Textfile)
	c.SavedPINs = getEnvOrDefault("PROPERTYTAX_SAVED_PINS", c.SavedPINs)
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Source.Driver {
	case SourceSample:
	case SourceFile:
		if c.Source.PropertyFile == "" {
			return fmt.Errorf("%w: source.property_file is required for the file source", ErrInvalidConfig)
		}
	case database.DriverOracle, database.DriverPostgres:
	case database.DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("%w: database.path is required for sqlite", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown source driver %q", ErrInvalidConfig, c.Source.Driver)
	}
	if _, err := assessment.ParseOverride(c.Analysis.Override); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Analysis.Workers <= 0 {
		return fmt.Errorf("%w: analysis.workers must be positive, got %d", ErrInvalidConfig, c.Analysis.Workers)
	}
	return nil
}

// UsesDatabase reports whether the source is one of the database drivers.
func (c Config) UsesDatabase() bool {
	switch c.Source.Driver {
	case database.DriverOracle, database.DriverPostgres, database.DriverSQLite:
		return true
	}
	return false
}

// DBConfig converts the database section for the database package.
func (c Config) DBConfig() database.DBConfig {
	return database.DBConfig{
		Driver:         c.Source.Driver,
		Host:           c.Database.Host,
		Port:           c.Database.Port,
		Service:        c.Database.Service,
		Username:       c.Database.Username,
		Password:       c.Database.Password,
		WalletLocation: c.Database.WalletLocation,
		SSLMode:        c.Database.SSLMode,
		Path:           c.Database.Path,
	}
}

// S3Config converts the export bucket settings. Credentials come from the
// default AWS chain.
func (c Config) S3Config() export.S3Config {
	return export.S3Config{
		Bucket:    c.Export.S3.Bucket,
		Region:    c.Export.S3.Region,
		Prefix:    c.Export.S3.Prefix,
		Endpoint:  c.Export.S3.Endpoint,
		PathStyle: c.Export.S3.PathStyle,
	}
}

// EmailConfig converts the smtp section. Email is enabled when a server and
// at least one recipient are set.
func (c Config) EmailConfig() notify.EmailConfig {
	return notify.EmailConfig{
		SMTPServer: c.SMTP.Server,
		SMTPPort:   c.SMTP.Port,
		SMTPUser:   c.SMTP.Username,
		SMTPPass:   c.SMTP.Password,
		FromEmail:  c.SMTP.From,
		ToEmails:   c.SMTP.To,
		Enabled:    c.SMTP.Server != "" && len(c.SMTP.To) > 0,
	}
}
