package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Security SecurityConfig
	Email    EmailConfig
	Calendar CalendarConfig
	Report   ReportConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Port           int      `mapstructure:"port" envconfig:"SERVER_PORT"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds" envconfig:"SERVER_TIMEOUT_SECONDS"`
	RateLimitRPS   float64  `mapstructure:"rate_limit_rps" envconfig:"SERVER_RATE_LIMIT_RPS"`
	RateLimitBurst int      `mapstructure:"rate_limit_burst" envconfig:"SERVER_RATE_LIMIT_BURST"`
	AllowedOrigins []string `mapstructure:"allowed_origins" envconfig:"SERVER_ALLOWED_ORIGINS"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host" envconfig:"DB_HOST"`
	Port     int    `mapstructure:"port" envconfig:"DB_PORT"`
	User     string `mapstructure:"user" envconfig:"DB_USER"`
	Password string `mapstructure:"password" envconfig:"DB_PASSWORD"`
	Name     string `mapstructure:"name" envconfig:"DB_NAME"`
	SSLMode  string `mapstructure:"sslmode" envconfig:"DB_SSLMODE"`
}

type RedisConfig struct {
	URL string `mapstructure:"url" envconfig:"REDIS_URL"`
}

type JWTConfig struct {
	Secret             string `mapstructure:"secret" envconfig:"JWT_SECRET"`
	RefreshSecret      string `mapstructure:"refresh_secret" envconfig:"JWT_REFRESH_SECRET"`
	ExpiryHours        int    `mapstructure:"expiry_hours" envconfig:"JWT_EXPIRY_HOURS"`
	RefreshExpiryHours int    `mapstructure:"refresh_expiry_hours" envconfig:"JWT_REFRESH_EXPIRY_HOURS"`
}

type SecurityConfig struct {
	// BcryptCost of zero means the bcrypt library default.
	BcryptCost int `mapstructure:"bcrypt_cost" envconfig:"SECURITY_BCRYPT_COST"`
}

type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled" envconfig:"EMAIL_ENABLED"`
	Host     string `mapstructure:"host" envconfig:"SMTP_HOST"`
	Port     int    `mapstructure:"port" envconfig:"SMTP_PORT"`
	Username string `mapstructure:"username" envconfig:"SMTP_USERNAME"`
	Password string `mapstructure:"password" envconfig:"SMTP_PASSWORD"`
	From     string `mapstructure:"from" envconfig:"SMTP_FROM"`
}

type CalendarConfig struct {
	GatewayURL string `mapstructure:"gateway_url" envconfig:"CALENDAR_GATEWAY_URL"`
	APIKey     string `mapstructure:"api_key" envconfig:"CALENDAR_API_KEY"`
}

type ReportConfig struct {
	MonthlyTarget int      `mapstructure:"monthly_target" envconfig:"REPORT_MONTHLY_TARGET"`
	AdminEmails   []string `mapstructure:"admin_emails" envconfig:"REPORT_ADMIN_EMAILS"`
}

type WorkerConfig struct {
	SnapshotSchedule string `mapstructure:"snapshot_schedule" envconfig:"WORKER_SNAPSHOT_SCHEDULE"`
	SummarySchedule  string `mapstructure:"summary_schedule" envconfig:"WORKER_SUMMARY_SCHEDULE"`
}

// LoadConfig reads config.yaml, then overlays environment variables. A .env
// file is honored when present so local runs need no exported shell state.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := defaults()
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	return config, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			TimeoutSeconds: 30,
			RateLimitRPS:   50,
			RateLimitBurst: 100,
			AllowedOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			SSLMode: "disable",
		},
		Redis: RedisConfig{
			URL: "redis://localhost:6379/0",
		},
		JWT: JWTConfig{
			ExpiryHours:        24,
			RefreshExpiryHours: 24 * 7,
		},
		Report: ReportConfig{
			MonthlyTarget: 20,
		},
		Worker: WorkerConfig{
			SnapshotSchedule: "10 0 * * *",
			SummarySchedule:  "0 7 * * MON",
		},
	}
}
