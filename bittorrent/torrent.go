package bittorrent

import (
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"reflect"
	"strings"
	"time"

	"torrent-forge/bencode"

	"github.com/juju/errors"
	"github.com/mitchellh/mapstructure"
)

// TorrentInfo is the display view of a decoded torrent. It shares no memory
// with the buffer it was read from.
type TorrentInfo struct {
	InfoHash     string     `json:"info_hash" yaml:"info_hash"`
	Name         string     `json:"name" yaml:"name"`
	TotalSize    int64      `json:"total_size" yaml:"total_size"`
	Files        []FileInfo `json:"files" yaml:"files"`
	CreationDate *time.Time `json:"creation_date,omitempty" yaml:"creation_date,omitempty"`
	CreatedBy    string     `json:"created_by,omitempty" yaml:"created_by,omitempty"`
	Comment      string     `json:"comment,omitempty" yaml:"comment,omitempty"`
	IsPrivate    bool       `json:"private" yaml:"private"`
	PieceLength  *int64     `json:"piece_length,omitempty" yaml:"piece_length,omitempty"`
	PieceCount   *int       `json:"piece_count,omitempty" yaml:"piece_count,omitempty"`
	Trackers     [][]string `json:"trackers,omitempty" yaml:"trackers,omitempty"`
	WebSeeds     []string   `json:"web_seeds,omitempty" yaml:"web_seeds,omitempty"`
}

type infoDict struct {
	Name        string         `mapstructure:"name"`
	PieceLength *int64         `mapstructure:"piece length"`
	Private     int64          `mapstructure:"private"`
	Length      int64          `mapstructure:"length"`
	Files       []*infoFile    `mapstructure:"files"`
	Other       map[string]any `mapstructure:",remain"`
}

type infoFile struct {
	Length int64          `mapstructure:"length"`
	Path   []string       `mapstructure:"path"`
	Other  map[string]any `mapstructure:",remain"`
}

// ReadBase64 decodes standard base64 (padded or not) and reads the result.
func ReadBase64(s string) (*TorrentInfo, error) {
	s = strings.TrimSpace(s)
	buf, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		buf, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
		if err != nil {
			return nil, errors.Annotate(ErrInvalidBase64, err.Error())
		}
	}
	return Read(buf)
}

// Read decodes a .torrent buffer. Bencode syntax errors are returned as is,
// a well-formed buffer without an info dictionary gives ErrInvalidTorrentFile.
func Read(buf []byte) (*TorrentInfo, error) {
	v, err := bencode.Decode(buf)
	if err != nil {
		return nil, errors.Annotate(err, "decode torrent")
	}
	root, ok := v.(*bencode.Dict)
	if !ok {
		return nil, errors.Annotate(ErrInvalidTorrentFile, "top-level value is not a dictionary")
	}
	infoValue, ok := bencode.GetDict(root, "info")
	if !ok {
		return nil, errors.Annotate(ErrInvalidTorrentFile, "missing info section")
	}
	info, err := decodeInfo(infoValue)
	if err != nil {
		return nil, err
	}

	t := &TorrentInfo{
		Name:      info.Name,
		IsPrivate: info.Private == 1,
	}
	if len(info.Files) > 0 {
		for i, f := range info.Files {
			path := info.Name
			if len(f.Path) > 0 {
				path = strings.Join(f.Path, "/")
			}
			t.Files = append(t.Files, FileInfo{Path: path, Length: f.Length, Index: i})
			t.TotalSize += f.Length
		}
	} else {
		t.Files = []FileInfo{{Path: info.Name, Length: info.Length, Index: 0}}
		t.TotalSize = info.Length
	}
	t.PieceLength = info.PieceLength
	if pieces, ok := bencode.GetBytes(infoValue, "pieces"); ok {
		count := len(pieces) / HashSize
		t.PieceCount = &count
	}

	if date, ok := bencode.GetInt(root, "creation date"); ok {
		created := time.Unix(date, 0).UTC()
		t.CreationDate = &created
	}
	t.CreatedBy, _ = bencode.GetText(root, "created by")
	t.Comment, _ = bencode.GetText(root, "comment")
	t.Trackers = readTrackers(root)
	t.WebSeeds = readWebSeeds(root)

	raw, _, err := bencode.RawValue(buf, "info")
	if err != nil {
		return nil, errors.Trace(err)
	}
	hash := sha1.Sum(raw)
	t.InfoHash = hex.EncodeToString(hash[:])
	return t, nil
}

func decodeInfo(d *bencode.Dict) (*infoDict, error) {
	info := &infoDict{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: info,
		DecodeHook: func(src reflect.Kind, target reflect.Kind, from interface{}) (interface{}, error) {
			v, ok := from.([]byte)
			if !ok {
				return from, nil
			}
			switch target {
			case reflect.String:
				return bencode.String(v).DisplayText(), nil
			case reflect.Slice:
				// a single string where a list of segments is expected
				return []string{bencode.String(v).DisplayText()}, nil
			}
			return from, nil
		},
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	err = decoder.Decode(bencode.ToAny(d))
	if err != nil {
		return nil, errors.Annotate(ErrInvalidTorrentFile, err.Error())
	}
	return info, nil
}

func readTrackers(root *bencode.Dict) [][]string {
	if list, ok := bencode.GetList(root, "announce-list"); ok {
		tiers := make([][]string, 0, len(list))
		for _, item := range list {
			tierList, ok := item.(bencode.List)
			if !ok {
				continue
			}
			tier := textList(tierList)
			if len(tier) > 0 {
				tiers = append(tiers, tier)
			}
		}
		if len(tiers) > 0 {
			return tiers
		}
	}
	if announce, ok := bencode.GetText(root, "announce"); ok && announce != "" {
		return [][]string{{announce}}
	}
	return nil
}

func readWebSeeds(root *bencode.Dict) []string {
	switch v := bencode.GetByPath(root, "url-list").(type) {
	case bencode.String:
		if len(v) == 0 {
			return nil
		}
		return []string{v.DisplayText()}
	case bencode.List:
		return textList(v)
	default:
		return nil
	}
}

func textList(l bencode.List) []string {
	ret := make([]string, 0, len(l))
	for _, item := range l {
		if s, ok := item.(bencode.String); ok {
			ret = append(ret, s.DisplayText())
		}
	}
	if len(ret) == 0 {
		return nil
	}
	return ret
}
