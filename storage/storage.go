package storage

import (
	"context"

	"torrent-forge/common/model"
)

type TorrentStorage interface {
	Store(ctx context.Context, torrent *model.Torrent) error
}

// Multi stores into every storage and returns the first error after trying all of them.
type Multi []TorrentStorage

func (m Multi) Store(ctx context.Context, torrent *model.Torrent) error {
	var first error
	for _, s := range m {
		if err := s.Store(ctx, torrent); err != nil && first == nil {
			first = err
		}
	}
	return first
}
