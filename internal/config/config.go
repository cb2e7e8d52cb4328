package config

import (
	"os"
	"strings"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string

	// Channel credentials. Each channel is decided once at startup:
	// missing credentials disable that channel without affecting the rest.
	FollowUpBoss FollowUpBossConfig
	Sheets       SheetsConfig
	Email        EmailConfig
}

// FollowUpBossConfig holds Follow Up Boss CRM credentials.
type FollowUpBossConfig struct {
	APIKey string
}

// Configured reports whether the CRM channel has credentials.
func (c FollowUpBossConfig) Configured() bool {
	return c.APIKey != ""
}

// SheetsConfig holds Google Sheets service-account credentials.
type SheetsConfig struct {
	ServiceAccountEmail string
	PrivateKey          string
	SpreadsheetID       string
}

// Configured reports whether all three spreadsheet credentials are present.
func (c SheetsConfig) Configured() bool {
	return c.ServiceAccountEmail != "" && c.PrivateKey != "" && c.SpreadsheetID != ""
}

// EmailConfig holds SendGrid credentials and addressing.
type EmailConfig struct {
	SendGridAPIKey    string
	FromEmail         string
	FromName          string
	NotificationEmail string
}

// Configured reports whether the email channel has credentials.
func (c EmailConfig) Configured() bool {
	return c.SendGridAPIKey != ""
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		FollowUpBoss: FollowUpBossConfig{
			APIKey: getEnv("FUB_API_KEY", ""),
		},
		Sheets: SheetsConfig{
			ServiceAccountEmail: getEnv("GOOGLE_SERVICE_ACCOUNT_EMAIL", ""),
			PrivateKey:          getEnv("GOOGLE_PRIVATE_KEY", ""),
			SpreadsheetID:       getEnv("GOOGLE_SHEETS_SPREADSHEET_ID", ""),
		},
		Email: EmailConfig{
			SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
			FromEmail:         getEnv("NOTIFICATION_FROM_EMAIL", "no-reply@blueoakrealty.com"),
			FromName:          getEnv("NOTIFICATION_FROM_NAME", "Blue Oak Realty"),
			NotificationEmail: getEnv("NOTIFICATION_EMAIL", "leads@blueoakrealty.com"),
		},
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsSlice retrieves a comma-separated environment variable
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
