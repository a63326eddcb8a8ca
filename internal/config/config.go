// Package config loads layered server configuration: defaults, an optional
// config.yaml, a .env file and finally environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // dues.timezone must resolve in minimal containers

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/kusalyaa/SpendMart-sub000/internal/dues"
	"github.com/kusalyaa/SpendMart-sub000/internal/purchase"
)

// Config represents the complete server configuration
type Config struct {
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`

	Store struct {
		// Backend is "firestore" or "memory".
		Backend string `mapstructure:"backend"`
	} `mapstructure:"store"`

	Firestore struct {
		ProjectID       string `mapstructure:"project_id"`
		CredentialsFile string `mapstructure:"credentials_file"`
	} `mapstructure:"firestore"`

	Auth struct {
		Skip bool `mapstructure:"skip"`
	} `mapstructure:"auth"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	Credit struct {
		MonthlyRate     string `mapstructure:"monthly_rate"`
		ShortfallTerms  []int  `mapstructure:"shortfall_terms"`
		MaxInstallments int    `mapstructure:"max_installments"`
	} `mapstructure:"credit"`

	Dues struct {
		ReminderHour int    `mapstructure:"reminder_hour"`
		Timezone     string `mapstructure:"timezone"`
	} `mapstructure:"dues"`

	Reminders struct {
		Enabled   bool   `mapstructure:"enabled"`
		Schedule  string `mapstructure:"schedule"`
		BatchSize int    `mapstructure:"batch_size"`
	} `mapstructure:"reminders"`

	Extraction struct {
		OCRURL string `mapstructure:"ocr_url"`
	} `mapstructure:"extraction"`

	Storage struct {
		ReceiptsBucket string `mapstructure:"receipts_bucket"`
	} `mapstructure:"storage"`

	Algolia struct {
		AppID     string `mapstructure:"app_id"`
		APIKey    string `mapstructure:"api_key"`
		IndexName string `mapstructure:"index_name"`
	} `mapstructure:"algolia"`

	CORS struct {
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	} `mapstructure:"cors"`
}

// Load reads the configuration. configFile may be empty to search the
// default locations.
func Load(configFile string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".spendmart")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SPENDMART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	// Bare variable names used by Cloud Run and local scripts.
	for key, env := range map[string]string{
		"server.port":             "PORT",
		"firestore.project_id":    "GOOGLE_CLOUD_PROJECT",
		"auth.skip":               "SKIP_AUTH",
		"algolia.app_id":          "ALGOLIA_APP_ID",
		"algolia.api_key":         "ALGOLIA_API_KEY",
		"storage.receipts_bucket": "RECEIPTS_BUCKET",
	} {
		if err := v.BindEnv(key, "SPENDMART_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		v.Set("store.backend", "memory")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8111")
	v.SetDefault("store.backend", "firestore")
	v.SetDefault("firestore.project_id", "")
	v.SetDefault("firestore.credentials_file", "")
	v.SetDefault("auth.skip", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("credit.monthly_rate", "0.015")
	v.SetDefault("credit.shortfall_terms", []int{3, 6, 12})
	v.SetDefault("credit.max_installments", 60)

	v.SetDefault("dues.reminder_hour", 9)
	v.SetDefault("dues.timezone", "Asia/Colombo")

	v.SetDefault("reminders.enabled", true)
	v.SetDefault("reminders.schedule", "@every 1m")
	v.SetDefault("reminders.batch_size", 100)

	v.SetDefault("extraction.ocr_url", "")
	v.SetDefault("storage.receipts_bucket", "")
	v.SetDefault("algolia.app_id", "")
	v.SetDefault("algolia.api_key", "")
	v.SetDefault("algolia.index_name", "spendmart_items")

	v.SetDefault("cors.allowed_origins", []string{
		"http://localhost:1234",
		"http://127.0.0.1:1234",
	})
}

// Validate checks value ranges and cross-field requirements.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", c.Log.Format)
	}

	switch c.Store.Backend {
	case "memory", "firestore":
	default:
		return fmt.Errorf("store.backend must be 'memory' or 'firestore', got: %s", c.Store.Backend)
	}

	rate, err := decimal.NewFromString(c.Credit.MonthlyRate)
	if err != nil || rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("credit.monthly_rate must be a decimal in [0, 1), got: %s", c.Credit.MonthlyRate)
	}
	if c.Credit.MaxInstallments < 1 {
		return fmt.Errorf("credit.max_installments must be positive, got: %d", c.Credit.MaxInstallments)
	}
	if len(c.Credit.ShortfallTerms) == 0 {
		return fmt.Errorf("credit.shortfall_terms must not be empty")
	}
	for _, term := range c.Credit.ShortfallTerms {
		if term < 1 || term > c.Credit.MaxInstallments {
			return fmt.Errorf("credit.shortfall_terms entry %d outside 1..%d", term, c.Credit.MaxInstallments)
		}
	}

	if c.Dues.ReminderHour < 0 || c.Dues.ReminderHour > 23 {
		return fmt.Errorf("dues.reminder_hour must be between 0 and 23, got: %d", c.Dues.ReminderHour)
	}
	if _, err := time.LoadLocation(c.Dues.Timezone); err != nil {
		return fmt.Errorf("dues.timezone %q: %w", c.Dues.Timezone, err)
	}

	if c.Reminders.BatchSize < 1 {
		return fmt.Errorf("reminders.batch_size must be positive, got: %d", c.Reminders.BatchSize)
	}
	if (c.Algolia.AppID == "") != (c.Algolia.APIKey == "") {
		return fmt.Errorf("algolia.app_id and algolia.api_key must be set together")
	}
	return nil
}

// PurchaseConfig converts the credit settings for the orchestrator.
func (c *Config) PurchaseConfig() purchase.Config {
	return purchase.Config{
		MonthlyRate:     decimal.RequireFromString(c.Credit.MonthlyRate),
		ShortfallTerms:  append([]int(nil), c.Credit.ShortfallTerms...),
		MaxInstallments: c.Credit.MaxInstallments,
	}
}

// DuesConfig converts the reminder settings for the due scheduler.
func (c *Config) DuesConfig() dues.Config {
	cfg := dues.DefaultConfig()
	cfg.ReminderHour = c.Dues.ReminderHour
	if loc, err := time.LoadLocation(c.Dues.Timezone); err == nil {
		cfg.Location = loc
	}
	return cfg
}

// ConfigureLogging builds the process logger from the log settings.
func ConfigureLogging(c *Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(strings.ToLower(c.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", c.Log.Level)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.ToLower(c.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

// loadEnvFile loads .env from the working directory or its parent.
func loadEnvFile() {
	for _, envFile := range []string{".env", filepath.Join("..", ".env")} {
		if _, err := os.Stat(envFile); err == nil {
			// Existing environment variables win over the file.
			_ = godotenv.Load(envFile)
			return
		}
	}
}
