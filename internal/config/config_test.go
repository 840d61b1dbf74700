package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "./data/employees.json", cfg.Data.EmployeesFile)
	assert.Equal(t, 50, cfg.Query.DefaultPageSize)
	assert.Equal(t, 200, cfg.Query.MaxPageSize)
	assert.Equal(t, 5*time.Second, cfg.Cache.ResultTTL)
	assert.Contains(t, cfg.Security.CORSAllowedOrigins, "http://localhost:3000")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SD_ENV", "prod")
	t.Setenv("SD_HTTP_ADDR", ":9090")
	t.Setenv("SD_MAX_PAGE_SIZE", "500")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProd())
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 500, cfg.Query.MaxPageSize)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{"zero default page size", "SD_DEFAULT_PAGE_SIZE", "0"},
		{"zero max page size", "SD_MAX_PAGE_SIZE", "0"},
		{"default exceeds max", "SD_DEFAULT_PAGE_SIZE", "1000"},
		{"negative cache ttl", "SD_RESULT_CACHE_TTL", "-1s"},
		{"zero rate limit", "SD_RATE_LIMIT_RPM", "0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
