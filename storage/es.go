package storage

import (
	"context"

	"torrent-forge/common/model"

	"github.com/juju/errors"
	"github.com/olivere/elastic/v7"
	"github.com/sirupsen/logrus"
)

const esIndex = "torrents"

var _ TorrentStorage = (*ESTorrentStorage)(nil)

type ESTorrentStorage struct {
	client *elastic.Client
}

func NewESTorrentStorage(host string) (*ESTorrentStorage, error) {
	client, err := elastic.NewClient(
		elastic.SetURL(host),
		elastic.SetSniff(false),
	)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &ESTorrentStorage{client: client}, nil
}

func (h *ESTorrentStorage) Store(ctx context.Context, torrent *model.Torrent) error {
	_, err := h.client.Update().
		Index(esIndex).
		Id(torrent.InfoHash).
		Doc(torrent).
		DocAsUpsert(true).
		Do(ctx)
	if err != nil {
		logrus.Errorf("Failed to index torrent %s %s %v", torrent.InfoHash, torrent.Name, err)
		return errors.Trace(err)
	}
	return nil
}

func (h *ESTorrentStorage) Count(ctx context.Context) (int64, error) {
	cnt, err := h.client.Count(esIndex).Do(ctx)
	return cnt, errors.Trace(err)
}
