package model

import (
	"time"

	"torrent-forge/bittorrent"

	"github.com/kamva/mgm/v3"
)

const TopicTorrentIndexed = "torrent_indexed"

var _ mgm.Model = (*Torrent)(nil)

type File struct {
	Path   string `bson:"path" json:"path"`
	Length int64  `bson:"length" json:"length"`
}

type Torrent struct {
	InfoHash     string     `bson:"_id" json:"info_hash"`
	Name         string     `bson:"name" json:"name"`
	Files        []*File    `bson:"files" json:"files"`
	Length       int64      `bson:"length" json:"length"`
	PieceLength  int64      `bson:"piece_length,omitempty" json:"piece_length,omitempty"`
	PieceCount   int        `bson:"piece_count,omitempty" json:"piece_count,omitempty"`
	Private      bool       `bson:"private" json:"private"`
	Comment      string     `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedBy    string     `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreationDate *time.Time `bson:"creation_date,omitempty" json:"creation_date,omitempty"`
	Trackers     [][]string `bson:"trackers,omitempty" json:"trackers,omitempty"`
	WebSeeds     []string   `bson:"web_seeds,omitempty" json:"web_seeds,omitempty"`
	Source       string     `bson:"source" json:"source"`
	CreatedAt    *time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    *time.Time `bson:"updated_at" json:"updated_at"`
}

func NewTorrentFromInfo(info *bittorrent.TorrentInfo, source string) *Torrent {
	now := time.Now()
	t := &Torrent{
		InfoHash:     info.InfoHash,
		Name:         info.Name,
		Files:        make([]*File, 0, len(info.Files)),
		Length:       info.TotalSize,
		Private:      info.IsPrivate,
		Comment:      info.Comment,
		CreatedBy:    info.CreatedBy,
		CreationDate: info.CreationDate,
		Trackers:     info.Trackers,
		WebSeeds:     info.WebSeeds,
		Source:       source,
		CreatedAt:    &now,
		UpdatedAt:    &now,
	}
	for _, f := range info.Files {
		t.Files = append(t.Files, &File{Path: f.Path, Length: f.Length})
	}
	if info.PieceLength != nil {
		t.PieceLength = *info.PieceLength
	}
	if info.PieceCount != nil {
		t.PieceCount = *info.PieceCount
	}
	return t
}

func (t *Torrent) Valid() bool {
	return len(t.InfoHash) == 40 && len(t.Name) > 0
}

func (t *Torrent) PrepareID(id interface{}) (interface{}, error) {
	return id, nil
}

func (t *Torrent) GetID() interface{} {
	return t.InfoHash
}

func (t *Torrent) SetID(id interface{}) {
	t.InfoHash = id.(string)
}
