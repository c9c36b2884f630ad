package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAdminEmails(t *testing.T) {
	t.Run("empty falls back to default", func(t *testing.T) {
		emails := parseAdminEmails("")
		require.Len(t, emails, 1)
		assert.Equal(t, defaultAdminEmail, emails[0])
	})

	t.Run("splits and normalizes", func(t *testing.T) {
		emails := parseAdminEmails(" Alice@Example.com , bob@example.com ,")
		assert.Equal(t, []string{"alice@example.com", "bob@example.com"}, emails)
	})

	t.Run("only separators falls back to default", func(t *testing.T) {
		emails := parseAdminEmails(" , , ")
		assert.Equal(t, []string{defaultAdminEmail}, emails)
	})
}

func TestIsAdminEmail(t *testing.T) {
	cfg := &Config{AdminEmails: []string{"admin@example.com", "ops@example.com"}}

	assert.True(t, cfg.IsAdminEmail("admin@example.com"))
	assert.True(t, cfg.IsAdminEmail("  ADMIN@example.com "))
	assert.False(t, cfg.IsAdminEmail("intruder@example.com"))
	assert.False(t, cfg.IsAdminEmail(""))
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://test:27017")
	t.Setenv("ADMIN_EMAILS", "a@x.co,b@x.co")
	t.Setenv("DEBUG", "true")

	cfg := LoadConfig()

	assert.Equal(t, "mongodb://test:27017", cfg.MongoURI)
	assert.Equal(t, []string{"a@x.co", "b@x.co"}, cfg.AdminEmails)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "8080", cfg.Port)
}
