package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	Wheel    WheelConfig
	Fallback FallbackConfig
	Telegram TelegramConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration for the admin surface
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// WheelConfig holds the deployment-wide attempt policy
type WheelConfig struct {
	BaseAttempts  int
	ReferralBonus int
}

// FallbackConfig holds the lead-reconciliation timing policy
type FallbackConfig struct {
	Delay          time.Duration
	SweepInterval  time.Duration
	SweepBatchSize int
}

// TelegramConfig holds the default notifier bot configuration. Tenants may
// override the token and chat in their stored settings.
type TelegramConfig struct {
	BotToken         string
	LeadChatID       string
	ReferralLinkBase string
	MockNotifier     bool
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Read configuration
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Unmarshal configuration
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "spinmate")
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("Wheel.BaseAttempts", 1)
	viper.SetDefault("Wheel.ReferralBonus", 1)
	viper.SetDefault("Fallback.Delay", 2*time.Minute)
	viper.SetDefault("Fallback.SweepInterval", 30*time.Second)
	viper.SetDefault("Fallback.SweepBatchSize", 50)
	viper.SetDefault("Telegram.ReferralLinkBase", "https://t.me/spinmate_bot?start=ref_")
	viper.SetDefault("Telegram.MockNotifier", true)
	viper.SetDefault("LogLevel", "info")
}
