package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresPath(t *testing.T) {
	_, err := NewClient(Config{})

	assert.Error(t, err)
}

func TestMigrateIsRepeatable(t *testing.T) {
	c, err := NewClient(Config{Path: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	defer c.Close(context.Background())

	require.NoError(t, c.Migrate(context.Background()))
	require.NoError(t, c.Migrate(context.Background()))

	var n int
	require.NoError(t, c.DB().QueryRow(`SELECT count(*) FROM jobs`).Scan(&n))
	assert.Equal(t, 0, n)
}
