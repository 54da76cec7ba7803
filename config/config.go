// Package config loads service settings from the environment.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

// Config holds all configuration for the ledger service.
type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`
	Port       string `mapstructure:"PORT"`

	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBHost      string `mapstructure:"DB_HOST"`
	DBPort      string `mapstructure:"DB_PORT"`
	DBUser      string `mapstructure:"DB_USER"`
	DBPassword  string `mapstructure:"DB_PASSWORD"`
	DBName      string `mapstructure:"DB_NAME"`
	DBSSLMode   string `mapstructure:"DB_SSLMODE"`

	SupabaseJWTSecret string `mapstructure:"SUPABASE_JWT_SECRET"`

	VietQRClientID string `mapstructure:"VIETQR_CLIENT_ID"`
	VietQRAPIKey   string `mapstructure:"VIETQR_API_KEY"`
	VietQRBaseURL  string `mapstructure:"VIETQR_BASE_URL"`

	RedisURL          string `mapstructure:"REDIS_URL"`
	RabbitMQURL       string `mapstructure:"RABBITMQ_URL"`
	DashboardExchange string `mapstructure:"DASHBOARD_EXCHANGE"`

	BankDirectoryRefreshSchedule string `mapstructure:"BANK_DIRECTORY_REFRESH_SCHEDULE"`
	AppTimezone                  string `mapstructure:"APP_TIMEZONE"`
	CORSAllowedOrigins           string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	NewRelicLicenseKey           string `mapstructure:"NEW_RELIC_LICENSE_KEY"`
}

var keys = []string{
	"SERVER_PORT", "PORT",
	"DATABASE_URL", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
	"SUPABASE_JWT_SECRET",
	"VIETQR_CLIENT_ID", "VIETQR_API_KEY", "VIETQR_BASE_URL",
	"REDIS_URL", "RABBITMQ_URL", "DASHBOARD_EXCHANGE",
	"BANK_DIRECTORY_REFRESH_SCHEDULE", "APP_TIMEZONE", "CORS_ALLOWED_ORIGINS", "NEW_RELIC_LICENSE_KEY",
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	viper.SetDefault("SERVER_PORT", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_NAME", "congno")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("VIETQR_BASE_URL", "https://api.vietqr.io/v2")
	viper.SetDefault("DASHBOARD_EXCHANGE", "congno.dashboard")
	viper.SetDefault("BANK_DIRECTORY_REFRESH_SCHEDULE", "@daily")
	viper.SetDefault("APP_TIMEZONE", "Asia/Ho_Chi_Minh")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.AutomaticEnv()

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	for _, key := range keys {
		_ = viper.BindEnv(key)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if strings.TrimSpace(config.SupabaseJWTSecret) == "" {
		return nil, fmt.Errorf("SUPABASE_JWT_SECRET is required")
	}
	if _, err := config.Location(); err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", config.AppTimezone, err)
	}

	return &config, nil
}

// ListenPort prefers SERVER_PORT over the platform-provided PORT
func (c *Config) ListenPort() string {
	if port := strings.TrimSpace(c.ServerPort); port != "" {
		return port
	}
	return strings.TrimSpace(c.Port)
}

// DatabaseDSN returns DATABASE_URL, or builds a connection URL from the DB_* parts
func (c *Config) DatabaseDSN() string {
	if dsn := strings.TrimSpace(c.DatabaseURL); dsn != "" {
		return dsn
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.DBSSLMode}}.Encode(),
	}
	return u.String()
}

// Location is the timezone used for memo dates and exports
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(strings.TrimSpace(c.AppTimezone))
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORSAllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
