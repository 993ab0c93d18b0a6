package app

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from environment
// variables, .env files, and command-line flags.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Content store (headless CMS)
	ContentProjectID  string
	ContentDataset    string
	ContentReadToken  string
	ContentWriteToken string
	ContentBaseURL    string

	// Payment provider
	StripeSecretKey     string
	StripeWebhookSecret string

	// API surface
	ProvisionSecret string
	SiteURL         string
	HTTPHost        string
	HTTPPort        int

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files before Viper env binding
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	bindEnvKeys()

	config := &Config{
		ContentProjectID:  viper.GetString("CONTENT_PROJECT_ID"),
		ContentDataset:    viper.GetString("CONTENT_DATASET"),
		ContentReadToken:  viper.GetString("CONTENT_READ_TOKEN"),
		ContentWriteToken: viper.GetString("CONTENT_WRITE_TOKEN"),
		ContentBaseURL:    viper.GetString("CONTENT_BASE_URL"),

		StripeSecretKey:     viper.GetString("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: viper.GetString("STRIPE_WEBHOOK_SECRET"),

		ProvisionSecret: viper.GetString("PROVISION_SECRET"),
		SiteURL:         viper.GetString("SITE_URL"),
		HTTPHost:        viper.GetString("HTTP_HOST"),
		HTTPPort:        viper.GetInt("HTTP_PORT"),

		LogLevel:  viper.GetString("LOG_LEVEL"),
		LogFormat: viper.GetString("LOG_FORMAT"),
		LogOutput: viper.GetString("LOG_OUTPUT"),
	}

	// Defaults
	if config.ContentDataset == "" {
		config.ContentDataset = "production"
	}
	if config.SiteURL == "" {
		config.SiteURL = "http://localhost:3000"
	}
	if config.HTTPHost == "" {
		config.HTTPHost = "localhost"
	}
	if config.HTTPPort == 0 {
		config.HTTPPort = 8080
	}
	if config.LogFormat == "" {
		config.LogFormat = "auto"
	}
	if config.LogOutput == "" {
		config.LogOutput = "stderr"
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags. This is
// called after cobra parses flags so flag values take precedence over
// environment variables.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// bindEnvKeys explicitly binds the environment variables this application
// reads to Viper.
func bindEnvKeys() {
	keys := []string{
		"CONTENT_PROJECT_ID",
		"CONTENT_DATASET",
		"CONTENT_READ_TOKEN",
		"CONTENT_WRITE_TOKEN",
		"CONTENT_BASE_URL",
		"STRIPE_SECRET_KEY",
		"STRIPE_WEBHOOK_SECRET",
		"PROVISION_SECRET",
		"SITE_URL",
		"HTTP_HOST",
		"HTTP_PORT",
		"LOG_LEVEL",
		"LOG_FORMAT",
		"LOG_OUTPUT",
	}

	for _, key := range keys {
		_ = viper.BindEnv(key)
	}
}
