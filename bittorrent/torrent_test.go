package bittorrent

import (
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"testing"
	"time"

	"torrent-forge/bencode"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

func TestRead_roundTrip(t *testing.T) {
	date := time.Unix(1700000000, 0)
	private := true
	meta := &TorrentMetadata{
		Name:         "collection",
		Comment:      "commentaire",
		CreatedBy:    "torrent-forge/1.0",
		CreationDate: &date,
		PieceLength:  32768,
		Private:      &private,
		Trackers:     [][]string{{"udp://a/announce"}, {"udp://b/announce", "http://c/announce"}},
		WebSeeds:     []string{"http://seed/"},
		Files: []FileEntry{
			NewFileEntry(`docs\readme.txt`, randomContents(9, 1234)[0]),
			NewFileEntry("video/clip.mkv", randomContents(10, 100000)[0]),
			NewFileEntry("empty", nil),
		},
	}
	out, err := testBuilder().Build(context.Background(), meta)
	if !assert.NoError(t, err) {
		return
	}
	info, err := Read(out)
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, "collection", info.Name)
	assert.Equal(t, []FileInfo{
		{Path: "docs/readme.txt", Length: 1234, Index: 0},
		{Path: "video/clip.mkv", Length: 100000, Index: 1},
		{Path: "empty", Length: 0, Index: 2},
	}, info.Files)
	assert.Equal(t, int64(101234), info.TotalSize)
	assert.Equal(t, "commentaire", info.Comment)
	assert.Equal(t, "torrent-forge/1.0", info.CreatedBy)
	if assert.NotNil(t, info.CreationDate) {
		assert.Equal(t, int64(1700000000), info.CreationDate.Unix())
	}
	assert.True(t, info.IsPrivate)
	if assert.NotNil(t, info.PieceLength) {
		assert.Equal(t, int64(32768), *info.PieceLength)
	}
	if assert.NotNil(t, info.PieceCount) {
		assert.Equal(t, 4, *info.PieceCount)
	}
	assert.Equal(t, meta.Trackers, info.Trackers)
	assert.Equal(t, []string{"http://seed/"}, info.WebSeeds)

	raw, ok, err := bencode.RawValue(out, "info")
	assert.NoError(t, err)
	assert.True(t, ok)
	hash := sha1.Sum(raw)
	assert.Equal(t, hex.EncodeToString(hash[:]), info.InfoHash)
}

func TestRead_singleFile(t *testing.T) {
	out, err := Build(&TorrentMetadata{
		Name:     "file.bin",
		Trackers: [][]string{{"http://t/announce"}},
		Files:    []FileEntry{NewFileEntry("file.bin", make([]byte, 1000000))},
	})
	if !assert.NoError(t, err) {
		return
	}
	info, err := Read(out)
	if assert.NoError(t, err) {
		assert.Equal(t, []FileInfo{{Path: "file.bin", Length: 1000000}}, info.Files)
		assert.Equal(t, int64(1000000), info.TotalSize)
		assert.False(t, info.IsPrivate)
		assert.Equal(t, [][]string{{"http://t/announce"}}, info.Trackers)
		assert.Equal(t, 62, *info.PieceCount)
	}
}

func TestRead_latin1Fallback(t *testing.T) {
	buf := []byte("d7:comment2:\xe0\xe94:infod6:lengthi5e4:name4:caf\xe912:piece lengthi16384e6:pieces20:01234567890123456789ee")
	info, err := Read(buf)
	if assert.NoError(t, err) {
		assert.Equal(t, "café", info.Name)
		assert.Equal(t, "àé", info.Comment)
		assert.Equal(t, []FileInfo{{Path: "café", Length: 5}}, info.Files)
		assert.Equal(t, 1, *info.PieceCount)
		assert.Nil(t, info.CreationDate)
		assert.Nil(t, info.Trackers)
	}
}

func TestRead_fileWithoutPath(t *testing.T) {
	buf := []byte("d4:infod5:filesld6:lengthi3eed6:lengthi4e4:pathl1:a1:beee4:name3:diree")
	info, err := Read(buf)
	if assert.NoError(t, err) {
		assert.Equal(t, []FileInfo{
			{Path: "dir", Length: 3, Index: 0},
			{Path: "a/b", Length: 4, Index: 1},
		}, info.Files)
		assert.Equal(t, int64(7), info.TotalSize)
		assert.Nil(t, info.PieceLength)
		assert.Nil(t, info.PieceCount)
	}
}

func TestRead_stringFilePath(t *testing.T) {
	buf := []byte("d4:infod5:filesld6:lengthi3e4:path5:a.txted6:lengthi4e4:pathl1:a1:beee4:name3:dir12:piece lengthi16384e6:pieces0:ee")
	info, err := Read(buf)
	if assert.NoError(t, err) {
		assert.Equal(t, []FileInfo{
			{Path: "a.txt", Length: 3, Index: 0},
			{Path: "a/b", Length: 4, Index: 1},
		}, info.Files)
		assert.Equal(t, int64(7), info.TotalSize)
	}
}

func TestRead_repeatedInfoKey(t *testing.T) {
	buf := []byte("d4:infod6:lengthi1e4:name1:ae4:infod6:lengthi2e4:name1:bee")
	info, err := Read(buf)
	if assert.NoError(t, err) {
		assert.Equal(t, "b", info.Name)
		assert.Equal(t, int64(2), info.TotalSize)
		hash := sha1.Sum([]byte("d6:lengthi2e4:name1:be"))
		assert.Equal(t, hex.EncodeToString(hash[:]), info.InfoHash)
	}
}

func TestRead_errors(t *testing.T) {
	_, err := Read([]byte("d4:info"))
	assert.True(t, errors.Is(err, bencode.ErrMalformedInput))
	assert.False(t, errors.Is(err, ErrInvalidTorrentFile))

	_, err = Read([]byte("not bencode"))
	assert.True(t, errors.Is(err, bencode.ErrUnknownTypeTag))

	for _, input := range []string{
		"de",
		"li1ee",
		"d4:infoi1ee",
		"d8:announce3:urle",
		"d4:infod4:namei1eee",
		"d4:infod5:filesli1eeee",
	} {
		_, err = Read([]byte(input))
		assert.True(t, errors.Is(err, ErrInvalidTorrentFile), "%s: %v", input, err)
		assert.False(t, errors.Is(err, bencode.ErrMalformedInput), input)
	}
}

func TestReadBase64(t *testing.T) {
	out, err := Build(&TorrentMetadata{
		Name:  "a",
		Files: []FileEntry{NewFileEntry("a", []byte("abc"))},
	})
	if !assert.NoError(t, err) {
		return
	}
	direct, err := Read(out)
	assert.NoError(t, err)
	info, err := ReadBase64(base64.StdEncoding.EncodeToString(out) + "\n")
	if assert.NoError(t, err) {
		assert.Equal(t, direct, info)
	}
	info, err = ReadBase64(base64.RawStdEncoding.EncodeToString(out))
	if assert.NoError(t, err) {
		assert.Equal(t, direct, info)
	}
	_, err = ReadBase64("%%%")
	assert.True(t, errors.Is(err, ErrInvalidBase64))
}

func TestRead_noAliasing(t *testing.T) {
	out, err := Build(&TorrentMetadata{
		Name:  "name",
		Files: []FileEntry{NewFileEntry("name", []byte("abc"))},
	})
	if !assert.NoError(t, err) {
		return
	}
	info, err := Read(out)
	assert.NoError(t, err)
	for i := range out {
		out[i] = 'x'
	}
	assert.Equal(t, "name", info.Name)
}
