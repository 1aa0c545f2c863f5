package bittorrent

import "strings"

// FileEntry is one file of a torrent being built. Path holds the segments
// below the torrent name.
type FileEntry struct {
	Path    []string
	Length  int64
	Content []byte
}

// NewFileEntry splits path on both '/' and '\' and takes ownership of content.
func NewFileEntry(path string, content []byte) FileEntry {
	return FileEntry{
		Path:    SplitPath(path),
		Length:  int64(len(content)),
		Content: content,
	}
}

func SplitPath(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	})
}

// FileInfo is one file of a decoded torrent.
type FileInfo struct {
	Path   string `json:"path" yaml:"path"`
	Length int64  `json:"length" yaml:"length"`
	Index  int    `json:"index" yaml:"index"`
}
