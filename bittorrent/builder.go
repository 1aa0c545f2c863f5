package bittorrent

import (
	"context"
	"strings"
	"time"

	"torrent-forge/bencode"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
)

const (
	MIMEType  = "application/x-bittorrent"
	extension = ".torrent"
)

// TorrentMetadata describes a torrent to build. One file selects single-file
// mode, more than one selects multi-file mode with Name as the directory.
type TorrentMetadata struct {
	Name         string
	Comment      string
	CreatedBy    string
	CreationDate *time.Time
	PieceLength  int64
	Private      *bool
	Trackers     [][]string
	WebSeeds     []string
	Files        []FileEntry
	// TotalSize, when non-zero, must match the sum of file lengths.
	TotalSize int64
}

func (m *TorrentMetadata) totalLength() int64 {
	var total int64
	for _, f := range m.Files {
		total += f.Length
	}
	return total
}

type Builder struct {
	// Now supplies the creation date when the metadata has none.
	Now func() time.Time
	// Workers > 1 hashes pieces in parallel.
	Workers int
}

func NewBuilder() *Builder {
	return &Builder{Now: time.Now, Workers: 1}
}

// Build encodes meta with a default builder.
func Build(meta *TorrentMetadata) ([]byte, error) {
	return NewBuilder().Build(context.Background(), meta)
}

func (b *Builder) Build(ctx context.Context, meta *TorrentMetadata) ([]byte, error) {
	if err := validate(meta); err != nil {
		return nil, err
	}
	total := meta.totalLength()
	pieceLength := meta.PieceLength
	if pieceLength == 0 {
		pieceLength = RecommendPieceLength(total)
	}

	contents := make([][]byte, 0, len(meta.Files))
	for _, f := range meta.Files {
		contents = append(contents, f.Content)
	}
	hasher := &PieceHasher{PieceLength: pieceLength, Workers: b.Workers}
	pieces, err := hasher.Hash(ctx, contents)
	if err != nil {
		return nil, errors.Trace(err)
	}

	torrent := bencode.NewDict()
	torrent.Set("info", buildInfo(meta, pieceLength, pieces))
	torrent.Set("creation date", bencode.Int(b.creationDate(meta).Unix()))
	if meta.Comment != "" {
		torrent.Set("comment", bencode.Text(meta.Comment))
	}
	if meta.CreatedBy != "" {
		torrent.Set("created by", bencode.Text(meta.CreatedBy))
	}
	setTrackers(torrent, meta.Trackers)
	setWebSeeds(torrent, meta.WebSeeds)

	out, err := bencode.Encode(torrent)
	if err != nil {
		return nil, errors.Trace(err)
	}
	logrus.Debugf("Built torrent %s: %d files, %d bytes, %d pieces of %d", meta.Name, len(meta.Files), total, pieces.Count(), pieceLength)
	return out, nil
}

func (b *Builder) creationDate(meta *TorrentMetadata) time.Time {
	if meta.CreationDate != nil {
		return *meta.CreationDate
	}
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

func validate(meta *TorrentMetadata) error {
	if meta == nil {
		return errors.Annotate(ErrInvalidMetadata, "nil metadata")
	}
	if meta.Name == "" {
		return errors.Annotate(ErrInvalidMetadata, "empty name")
	}
	if len(meta.Files) == 0 {
		return errors.Annotate(ErrInvalidMetadata, "no files")
	}
	if meta.PieceLength != 0 && !validPieceLength(meta.PieceLength) {
		return errors.Annotatef(ErrInvalidPieceLength, "%d", meta.PieceLength)
	}
	for i, f := range meta.Files {
		if f.Length < 0 {
			return errors.Annotatef(ErrInvalidMetadata, "file %d has negative length", i)
		}
		if int64(len(f.Content)) != f.Length {
			return errors.Annotatef(ErrInvalidMetadata, "file %d declares %d bytes but has %d", i, f.Length, len(f.Content))
		}
		if len(meta.Files) > 1 && len(f.Path) == 0 {
			return errors.Annotatef(ErrInvalidMetadata, "file %d has no path", i)
		}
	}
	if meta.TotalSize != 0 && meta.TotalSize != meta.totalLength() {
		return errors.Annotatef(ErrInvalidMetadata, "declared total %d, files sum to %d", meta.TotalSize, meta.totalLength())
	}
	return nil
}

func buildInfo(meta *TorrentMetadata, pieceLength int64, pieces PieceHashes) *bencode.Dict {
	info := bencode.NewDict()
	info.Set("name", bencode.Text(meta.Name))
	info.Set("piece length", bencode.Int(pieceLength))
	info.Set("pieces", bencode.Bytes(pieces))
	if meta.Private != nil {
		if *meta.Private {
			info.Set("private", bencode.Int(1))
		} else {
			info.Set("private", bencode.Int(0))
		}
	}
	if len(meta.Files) == 1 {
		info.Set("length", bencode.Int(meta.Files[0].Length))
		return info
	}
	files := make(bencode.List, 0, len(meta.Files))
	for _, f := range meta.Files {
		path := make(bencode.List, 0, len(f.Path))
		for _, seg := range f.Path {
			path = append(path, bencode.Text(seg))
		}
		file := bencode.NewDict()
		file.Set("length", bencode.Int(f.Length))
		file.Set("path", path)
		files = append(files, file)
	}
	info.Set("files", files)
	return info
}

// setTrackers emits announce for a single tracker, announce-list otherwise.
// announce is not duplicated next to announce-list.
func setTrackers(torrent *bencode.Dict, trackers [][]string) {
	tiers := make(bencode.List, 0, len(trackers))
	var urls int
	for _, tier := range trackers {
		if len(tier) == 0 {
			continue
		}
		l := make(bencode.List, 0, len(tier))
		for _, u := range tier {
			l = append(l, bencode.Text(u))
		}
		tiers = append(tiers, l)
		urls += len(tier)
	}
	switch {
	case len(tiers) == 0:
	case len(tiers) == 1 && urls == 1:
		torrent.Set("announce", tiers[0].(bencode.List)[0])
	default:
		torrent.Set("announce-list", tiers)
	}
}

func setWebSeeds(torrent *bencode.Dict, seeds []string) {
	switch len(seeds) {
	case 0:
	case 1:
		torrent.Set("url-list", bencode.Text(seeds[0]))
	default:
		l := make(bencode.List, 0, len(seeds))
		for _, s := range seeds {
			l = append(l, bencode.Text(s))
		}
		torrent.Set("url-list", l)
	}
}

// FileName returns name with a .torrent extension.
func FileName(name string) string {
	if strings.HasSuffix(name, extension) {
		return name
	}
	return name + extension
}
