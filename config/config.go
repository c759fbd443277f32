// Package config loads application settings from a .env file and environment variables.
// Environment variables always take precedence over .env file values.
package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration. It is built once in main and
// passed down by reference; nothing below main reads the environment.
type Config struct {
	// PostgreSQL – either set DatabaseURL directly, or the individual fields.
	DatabaseURL string
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	DBSSLMode   string

	// JWT signing secret (required).
	JWTSecret string

	// Regions partitioning the state reference set. The dashboard reports a
	// count for each of these, zero included.
	Regions []string

	// Social sign-in. Google requires the client ID for the audience check;
	// Facebook needs app credentials for token introspection.
	GoogleClientID    string
	FacebookAppID     string
	FacebookAppSecret string

	// Password-reset email.
	SMTPHost      string
	SMTPPort      string
	SMTPUser      string
	SMTPPass      string
	MailFrom      string
	ResetLinkBase string

	// Server
	Debug      bool
	Port       string
	TLSDomains []string
}

// Load reads configuration from a .env file (if present) and then from
// environment variables. Environment variables always win.
func Load() *Config {
	v := newViper()

	// Defaults
	v.SetDefault("DB_USER", "racethestates")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "racethestates")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("PORT", ":8000")
	v.SetDefault("REGIONS", "West,Midwest,South,Northeast")
	v.SetDefault("TLS_DOMAINS", "api.racethestates.app")
	v.SetDefault("MAIL_FROM", "racethestatesapp@gmail.com")
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", "587")
	v.SetDefault("RESET_LINK_BASE", "racethestates://reset-password")
	v.SetDefault("DEBUG", false)

	cfg := &Config{
		DatabaseURL:       v.GetString("DATABASE_URL"),
		DBUser:            v.GetString("DB_USER"),
		DBPass:            v.GetString("DB_PASS"),
		DBHost:            v.GetString("DB_HOST"),
		DBPort:            v.GetString("DB_PORT"),
		DBName:            v.GetString("DB_NAME"),
		DBSSLMode:         v.GetString("DB_SSLMODE"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		Regions:           splitTrimmed(v.GetString("REGIONS")),
		GoogleClientID:    v.GetString("GOOGLE_CLIENT_ID"),
		FacebookAppID:     v.GetString("FACEBOOK_APP_ID"),
		FacebookAppSecret: v.GetString("FACEBOOK_APP_SECRET"),
		SMTPHost:          v.GetString("SMTP_HOST"),
		SMTPPort:          v.GetString("SMTP_PORT"),
		SMTPUser:          v.GetString("SMTP_USER"),
		SMTPPass:          v.GetString("SMTP_PASS"),
		MailFrom:          v.GetString("MAIL_FROM"),
		ResetLinkBase:     v.GetString("RESET_LINK_BASE"),
		Debug:             v.GetBool("DEBUG"),
		Port:              v.GetString("PORT"),
		TLSDomains:        splitTrimmed(v.GetString("TLS_DOMAINS")),
	}

	cfg.validate()
	return cfg
}

// PostgresDSN returns the full PostgreSQL connection string.
// DATABASE_URL takes precedence over individual fields.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser,
		c.DBPass,
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}

// JWTKey returns the JWT signing key as a byte slice.
func (c *Config) JWTKey() []byte {
	return []byte(c.JWTSecret)
}

func (c *Config) validate() {
	if c.DatabaseURL == "" && c.DBPass == "" {
		log.Fatal("config: DATABASE_URL or DB_PASS must be set")
	}
	if c.JWTSecret == "" {
		log.Fatal("config: JWT_SECRET must be set")
	}
	if len(c.Regions) == 0 {
		log.Fatal("config: REGIONS must name at least one region")
	}
}

func newViper() *viper.Viper {
	// Silently load .env – OK if the file doesn't exist (production uses real env vars).
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables only")
	}

	v := viper.New()
	v.AutomaticEnv()
	return v
}

func splitTrimmed(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
