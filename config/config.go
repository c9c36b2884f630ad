package config

import (
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	// MongoDB configuration
	MongoURI     string
	DatabaseName string

	// Admin allow-list (comma-separated in ADMIN_EMAILS)
	AdminEmails []string

	// Facebook app credentials
	FacebookAppID     string
	FacebookAppSecret string

	// Notion OAuth
	NotionClientID     string
	NotionClientSecret string
	NotionRedirectURI  string

	// Webhook configuration
	VerifyToken string

	// Embed script domain
	PublicDomain string

	// Server configuration
	Port  string
	Debug bool
}

const defaultAdminEmail = "admin@chatsa.co"

func LoadConfig() *Config {
	cfg := &Config{
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DatabaseName:       getEnv("MONGO_DB_NAME", "chatsa"),
		AdminEmails:        parseAdminEmails(os.Getenv("ADMIN_EMAILS")),
		FacebookAppID:      os.Getenv("FACEBOOK_APP_ID"),
		FacebookAppSecret:  os.Getenv("FACEBOOK_APP_SECRET"),
		NotionClientID:     os.Getenv("NOTION_CLIENT_ID"),
		NotionClientSecret: os.Getenv("NOTION_CLIENT_SECRET"),
		NotionRedirectURI:  getEnv("NOTION_REDIRECT_URI", "https://chatsa.co/api/auth/notion/callback"),
		VerifyToken:        getEnv("WEBHOOK_VERIFY_TOKEN", "webhook_verify_token"),
		PublicDomain:       getEnv("PUBLIC_DOMAIN", "chatsa.co"),
		Port:               getEnv("PORT", "8080"),
		Debug:              os.Getenv("DEBUG") == "true",
	}

	// Validate required configuration
	if cfg.FacebookAppID == "" || cfg.FacebookAppSecret == "" {
		slog.Warn("Facebook app credentials not set, channel integration disabled")
	}
	if cfg.NotionClientID == "" {
		slog.Warn("NOTION_CLIENT_ID not set, Notion OAuth disabled")
	}

	return cfg
}

// parseAdminEmails splits a comma-separated allow-list, falling back to the
// default admin address when the variable is empty.
func parseAdminEmails(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{defaultAdminEmail}
	}

	var emails []string
	for _, e := range strings.Split(raw, ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			emails = append(emails, e)
		}
	}
	if len(emails) == 0 {
		return []string{defaultAdminEmail}
	}
	return emails
}

// IsAdminEmail checks membership in the configured allow-list
func (c *Config) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, admin := range c.AdminEmails {
		if admin == email {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
