package util

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	AllowedOrigins     []string      `mapstructure:"ALLOWED_ORIGINS"`
	DatabaseURL        string        `mapstructure:"DATABASE_URL"`
	HTTPServerAddress  string        `mapstructure:"HTTP_SERVER_ADDRESS"`
	RedisServerAddress string        `mapstructure:"REDIS_SERVER_ADDRESS"`
	RabbitMQURL        string        `mapstructure:"RABBITMQ_URL"`
	GmailSMTPUsername  string        `mapstructure:"GMAIL_SMTP_USERNAME"`
	GmailSMTPPassword  string        `mapstructure:"GMAIL_SMTP_PASSWORD"`
	InactivityTimeout  time.Duration `mapstructure:"INACTIVITY_TIMEOUT"`
	FinalCountdown     int           `mapstructure:"FINAL_COUNTDOWN"`
	SweepInterval      time.Duration `mapstructure:"SWEEP_INTERVAL"`
	AuctionCacheTTL    time.Duration `mapstructure:"AUCTION_CACHE_TTL"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	// Set defaults for non-sensitive config
	viper.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:3000"})
	viper.SetDefault("HTTP_SERVER_ADDRESS", "0.0.0.0:8080")
	viper.SetDefault("INACTIVITY_TIMEOUT", "60s")
	viper.SetDefault("FINAL_COUNTDOWN", 15)
	viper.SetDefault("SWEEP_INTERVAL", "5s")
	viper.SetDefault("AUCTION_CACHE_TTL", "30s")

	// Prefer environment variables over config file
	viper.AutomaticEnv()

	// Load config file
	viper.SetConfigFile(path)
	if err = viper.ReadInConfig(); err != nil {
		return
	}

	// Unmarshal config into struct
	err = viper.UnmarshalExact(&config)
	if err != nil {
		return
	}

	// Validate required configuration
	err = validateConfig(config)
	return
}

func validateConfig(config Config) error {
	if config.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if config.RedisServerAddress == "" {
		return fmt.Errorf("REDIS_SERVER_ADDRESS is required")
	}
	if config.InactivityTimeout <= 0 {
		return fmt.Errorf("INACTIVITY_TIMEOUT must be positive")
	}
	if config.FinalCountdown <= 0 {
		return fmt.Errorf("FINAL_COUNTDOWN must be positive")
	}
	if config.SweepInterval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be positive")
	}

	return nil
}
