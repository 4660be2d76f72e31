package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	logg, err := NewLogger("json", "warn")
	require.NoError(t, err)
	assert.False(t, logg.Desugar().Core().Enabled(-1))

	_, err = NewLogger("pretty", "debug")
	assert.NoError(t, err)

	_, err = NewLogger("pretty", "loud")
	assert.Error(t, err)
}

func TestNewLoggerToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.log")
	logg, err := NewLogger("json", "info", path)
	require.NoError(t, err)

	logg.Infow("Seeded contacts", "count", 3)
	require.NoError(t, logg.Sync())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"count":3`)
}
