package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "RANDOMUSER_BASE_URL", "RANDOMUSER_TIMEOUT", "SEARCH_BACKEND", "POPULATE_LOCK_ENABLED"} {
		t.Setenv(k, "")
	}
	c := Load()

	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, "https://randomuser.me", c.RandomUserBaseURL)
	assert.Equal(t, 10*time.Second, c.RandomUserTimeout)
	assert.Equal(t, SearchBackendPostgres, c.SearchBackend)
	assert.False(t, c.UseElasticsearchSearch())
	assert.True(t, c.PopulateLockEnabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("RANDOMUSER_BASE_URL", "http://upstream.local/")
	t.Setenv("POPULATE_TIMEOUT", "5s")
	t.Setenv("SEARCH_BACKEND", "Elasticsearch")
	t.Setenv("EVENTS_ENABLED", "true")

	c := Load()

	assert.Equal(t, "9090", c.Port)
	assert.Equal(t, int32(25), c.DBMaxConns)
	assert.Equal(t, "http://upstream.local", c.RandomUserBaseURL)
	assert.Equal(t, 5*time.Second, c.PopulateTimeout)
	assert.True(t, c.UseElasticsearchSearch())
	assert.True(t, c.EventsEnabled)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MINUTE", "lots")
	t.Setenv("WEB_ENABLED", "maybe")
	t.Setenv("POPULATE_LOCK_TTL", "soon")

	c := Load()

	assert.Equal(t, 300, c.RateLimitPerMinute)
	assert.True(t, c.WebEnabled)
	assert.Equal(t, 90*time.Second, c.PopulateLockTTL)
}

func TestPostgresDSN(t *testing.T) {
	c := &Config{DBUser: "u", DBPassword: "p", DBHost: "db", DBPort: "5433", DBName: "dir", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5433/dir?sslmode=disable", c.PostgresDSN())
}

func TestListSplitting(t *testing.T) {
	c := &Config{
		CORSAllowedOrigins: " http://a.test, ,http://b.test ",
		ElasticsearchAddrs: "http://es1:9200,http://es2:9200",
	}
	require.Equal(t, []string{"http://a.test", "http://b.test"}, c.CORSOrigins())
	require.Equal(t, []string{"http://es1:9200", "http://es2:9200"}, c.ESAddrs())
}
