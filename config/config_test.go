package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 5*time.Second, cfg.Ingest.InitialDelay)
	assert.Equal(t, 10, cfg.Ingest.MaxItemsPerFeed)
	assert.Equal(t, "Tayar RSS Reader/1.0", cfg.Ingest.UserAgent)
	assert.Len(t, cfg.Feeds, 6)
	assert.True(t, cfg.Seed.Enabled)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TAYAR_SERVER_PORT", "9090")
	t.Setenv("TAYAR_INGEST_INTERVAL", "15m")
	t.Setenv("TAYAR_SEED_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 15*time.Minute, cfg.Ingest.Interval)
	assert.False(t, cfg.Seed.Enabled)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 8080},
			Database: DatabaseConfig{Driver: "sqlite"},
			Feeds:    DefaultFeedSources(),
		}
	}
	require.NoError(t, base().Validate())

	c := base()
	c.Database.Driver = "mysql"
	assert.Error(t, c.Validate())

	c = base()
	c.Feeds = append(c.Feeds, FeedSource{Name: "no url"})
	assert.Error(t, c.Validate())

	c = base()
	c.Tracing.Enabled = true
	assert.Error(t, c.Validate())
}
