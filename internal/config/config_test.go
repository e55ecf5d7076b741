package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "data/expenses.db", cfg.Database.Path)
	assert.Equal(t, "expense_tracker", cfg.Mongo.Database)
	assert.Equal(t, 30*24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Auth.JWTSecret)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("EXPENSE_AUTH_JWTSECRET", "s3cret")
	t.Setenv("EXPENSE_AUTH_TOKENTTL", "2h")
	t.Setenv("EXPENSE_DATABASE_DRIVER", DriverMongo)
	t.Setenv("EXPENSE_MONGO_URI", "mongodb://db:27017")
	t.Setenv("EXPENSE_SERVER_ADDR", ":9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, DriverMongo, cfg.Database.Driver)
	assert.Equal(t, "mongodb://db:27017", cfg.Mongo.URI)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("EXPENSE_AUTH_JWTSECRET=from-dotenv\n"), 0o600))
	chdir(t, dir)
	t.Setenv("EXPENSE_AUTH_JWTSECRET", "")
	os.Unsetenv("EXPENSE_AUTH_JWTSECRET")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Auth.JWTSecret)
}

func TestLoadRejectsMalformedDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("EXPENSE-SECRET=oops\n"), 0o600))
	chdir(t, dir)

	_, err := Load()
	assert.ErrorContains(t, err, "load .env")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		var cfg Config
		cfg.Auth.JWTSecret = "secret"
		cfg.Auth.TokenTTL = time.Hour
		cfg.Database.Driver = DriverSQLite
		cfg.Database.Path = "data/test.db"
		return cfg
	}
	require.NoError(t, valid().Validate())

	cases := map[string]func(*Config){
		"missing secret":    func(c *Config) { c.Auth.JWTSecret = "  " },
		"zero ttl":          func(c *Config) { c.Auth.TokenTTL = 0 },
		"unknown driver":    func(c *Config) { c.Database.Driver = "postgres" },
		"empty sqlite path": func(c *Config) { c.Database.Path = "" },
		"empty mongo uri":   func(c *Config) { c.Database.Driver, c.Mongo.URI = DriverMongo, "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent to testing.T.Chdir in Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(wd)) })
}
