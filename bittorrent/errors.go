package bittorrent

import "github.com/juju/errors"

const (
	// ErrInvalidTorrentFile means the input is valid bencode but not a torrent.
	ErrInvalidTorrentFile = errors.ConstError("invalid torrent file")
	ErrInvalidBase64      = errors.ConstError("invalid base64 torrent data")
	ErrInvalidMetadata    = errors.ConstError("invalid torrent metadata")
	ErrInvalidPieceLength = errors.ConstError("piece length must be a positive power of two")
)
