package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_defaults(t *testing.T) {
	c, err := Load("")
	if assert.NoError(t, err) {
		assert.Equal(t, "torrent-forge", c.CreatedBy)
		assert.Equal(t, 4, c.HashWorkers)
		assert.Equal(t, int64(0), c.PieceLength)
		assert.False(t, c.Private)
		assert.Empty(t, c.Trackers)
	}
}

func TestLoad_file(t *testing.T) {
	path := filepath.Join(t.TempDir(), "torrentforge.yaml")
	err := os.WriteFile(path, []byte(`CreatedBy: me
PieceLength: 262144
Private: true
WebSeeds:
  - http://seed/
`), 0644)
	if !assert.NoError(t, err) {
		return
	}
	c, err := Load(path)
	if assert.NoError(t, err) {
		assert.Equal(t, "me", c.CreatedBy)
		assert.Equal(t, int64(262144), c.PieceLength)
		assert.True(t, c.Private)
		assert.Equal(t, []string{"http://seed/"}, c.WebSeeds)
		assert.Equal(t, 4, c.HashWorkers)
	}
}

func TestLoad_missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
