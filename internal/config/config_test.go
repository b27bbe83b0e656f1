package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.JWTExpire)
	assert.Equal(t, "charging-station-api", cfg.Auth.JWTIssuer)
	assert.Equal(t, "charging-station-app", cfg.Auth.JWTAudience)
	assert.False(t, cfg.Auth.PublicReads)
	assert.Equal(t, 300*time.Second, cfg.Cache.StatsCacheTTL)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, 3*time.Second, cfg.Redis.Timeout)
	assert.Equal(t, 50, cfg.Worker.BatchSize)
	assert.Equal(t, "0.0.0.0:5000", cfg.GetServerAddr())
}

func TestLoadFile_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "JWT_SECRET=from-file\nSTORE_DRIVER=memory\nAPI_PORT=8080\nJWT_EXPIRE=12h\nAUTH_PUBLIC_READS=true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 12*time.Hour, cfg.Auth.JWTExpire)
	assert.True(t, cfg.Auth.PublicReads)
}

func TestLoadFile_Invalid(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.env")

	t.Run("no secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := LoadFile(missing)
		assert.Error(t, err)
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s")
		t.Setenv("STORE_DRIVER", "sqlite")
		_, err := LoadFile(missing)
		assert.Error(t, err)
	})

	t.Run("bad expiry", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s")
		t.Setenv("JWT_EXPIRE", "soon")
		_, err := LoadFile(missing)
		assert.Error(t, err)
	})
}

func TestParseDuration(t *testing.T) {
	d, err := parseDuration("7d")
	require.NoError(t, err)
	assert.Equal(t, 168*time.Hour, d)

	d, err = parseDuration("90m")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, d)

	_, err = parseDuration("0d")
	assert.Error(t, err)
}
