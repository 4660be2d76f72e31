package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, "file", cfg.DBDriver)
	assert.Equal(t, 10, cfg.PageSize)
	assert.True(t, cfg.RequestLogging())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DBDRIVER", "mysql")
	t.Setenv("DBUSER", "dirk")
	t.Setenv("DBPWD", "secret")
	t.Setenv("DBHOST", "db:3306")
	t.Setenv("GIN_LOGGING", "OFF")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "dirk:secret@tcp(db:3306)/test?parseTime=true", cfg.MySQLDSN())
	assert.False(t, cfg.RequestLogging())
}

func TestLoadInvalid(t *testing.T) {
	invalid := map[string]string{
		"DBDRIVER":  "postgres",
		"PAGE_SIZE": "0",
		"PORT":      "70000",
	}
	for key, value := range invalid {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
