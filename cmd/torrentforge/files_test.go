package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"torrent-forge/bittorrent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeFile(t *testing.T, path, content string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestCollectFiles_dir(t *testing.T) {
	root := filepath.Join(t.TempDir(), "album")
	writeFile(t, filepath.Join(root, "b.txt"), "bb")
	writeFile(t, filepath.Join(root, "a", "c.txt"), "ccc")

	files, name, err := collectFiles([]string{root})
	require.NoError(t, err)
	assert.Equal(t, "album", name)
	require.Len(t, files, 2)
	assert.Equal(t, []string{"a", "c.txt"}, files[0].Path)
	assert.Equal(t, int64(3), files[0].Length)
	assert.Equal(t, []string{"b.txt"}, files[1].Path)
}

func TestCollectFiles_dirWithOneFile(t *testing.T) {
	root := filepath.Join(t.TempDir(), "album")
	writeFile(t, filepath.Join(root, "disc", "track.flac"), "tt")

	files, name, err := collectFiles([]string{root})
	require.NoError(t, err)
	assert.Equal(t, "track.flac", name)
	require.Len(t, files, 1)
	assert.Equal(t, []string{"disc", "track.flac"}, files[0].Path)
}

func TestCollectFiles_single(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.bin")
	writeFile(t, path, "data")

	files, name, err := collectFiles([]string{path})
	require.NoError(t, err)
	assert.Equal(t, "one.bin", name)
	require.Len(t, files, 1)
	assert.Equal(t, []byte("data"), files[0].Content)
}

func TestCollectFiles_errors(t *testing.T) {
	_, _, err := collectFiles([]string{filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)

	_, _, err = collectFiles([]string{t.TempDir()})
	assert.Error(t, err)
}

func TestParseTiers(t *testing.T) {
	tiers := parseTiers([]string{"udp://a, udp://b", " ", "http://c"})
	assert.Equal(t, [][]string{{"udp://a", "udp://b"}, {"http://c"}}, tiers)
}

func TestCreateAndInspect(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "payload.txt")
	output := filepath.Join(dir, "out.torrent")
	writeFile(t, input, "hello torrent")

	err := runCreate([]string{"-o", output, "-tracker", "udp://a", "-comment", "hi", "-private", input})
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, runInspect([]string{output}, buf))
	info := &bittorrent.TorrentInfo{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), info))
	assert.Equal(t, "payload.txt", info.Name)
	assert.Equal(t, int64(13), info.TotalSize)
	assert.Equal(t, "hi", info.Comment)
	assert.Equal(t, "torrent-forge", info.CreatedBy)
	assert.True(t, info.IsPrivate)
	assert.Equal(t, [][]string{{"udp://a"}}, info.Trackers)
	assert.Len(t, info.InfoHash, 40)
}

func TestInspect_errors(t *testing.T) {
	assert.Error(t, runInspect(nil, &bytes.Buffer{}))

	path := filepath.Join(t.TempDir(), "bad.torrent")
	writeFile(t, path, "not base64!")
	assert.Error(t, runInspect([]string{"-base64", path}, &bytes.Buffer{}))
}
