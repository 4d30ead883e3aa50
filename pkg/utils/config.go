package utils

import (
	"errors"
	"io/fs"

	"github.com/spf13/viper"
)

type Config struct {
	App              AppConfig
	Database         DatabaseConfig
	JWT              JWTConfig
	Email            EmailConfig
	ConfirmationCode ConfirmationCodeConfig
	Pagination       PaginationConfig
}

type AppConfig struct {
	Name        string
	Port        string
	Debug       bool
	LogPath     string
	AutoMigrate bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	MaxConns int32
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	UseTLS   bool
}

type ConfirmationCodeConfig struct {
	ExpiryMinutes int
	Length        int
}

type PaginationConfig struct {
	PageSize int
}

// LoadConfig reads .env from the working directory when present; environment
// variables always win.
func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "review-catalog")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("DB_AUTO_MIGRATE", true)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USE_TLS", true)
	viper.SetDefault("EMAIL_FROM", "noreply@review-catalog.local")
	viper.SetDefault("CONFIRMATION_CODE_EXPIRY_MINUTES", 60)
	viper.SetDefault("CONFIRMATION_CODE_LENGTH", 6)
	viper.SetDefault("PAGE_SIZE", 10)

	if err := viper.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:        viper.GetString("APP_NAME"),
			Port:        viper.GetString("PORT"),
			Debug:       viper.GetBool("DEBUG"),
			LogPath:     viper.GetString("LOG_PATH"),
			AutoMigrate: viper.GetBool("DB_AUTO_MIGRATE"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		Email: EmailConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			User:     viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASS"),
			From:     viper.GetString("EMAIL_FROM"),
			UseTLS:   viper.GetBool("SMTP_USE_TLS"),
		},
		ConfirmationCode: ConfirmationCodeConfig{
			ExpiryMinutes: viper.GetInt("CONFIRMATION_CODE_EXPIRY_MINUTES"),
			Length:        viper.GetInt("CONFIRMATION_CODE_LENGTH"),
		},
		Pagination: PaginationConfig{
			PageSize: viper.GetInt("PAGE_SIZE"),
		},
	}

	return config, nil
}
