package storage

import (
	"context"
	"testing"

	"torrent-forge/common/model"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

type recordingStorage struct {
	stored []*model.Torrent
	err    error
}

func (r *recordingStorage) Store(ctx context.Context, torrent *model.Torrent) error {
	r.stored = append(r.stored, torrent)
	return r.err
}

func TestMulti_Store(t *testing.T) {
	failing := &recordingStorage{err: errors.New("down")}
	ok := &recordingStorage{}
	m := Multi{failing, ok}
	torrent := &model.Torrent{InfoHash: "abc"}
	err := m.Store(context.Background(), torrent)
	assert.EqualError(t, err, "down")
	assert.Len(t, failing.stored, 1)
	assert.Len(t, ok.stored, 1)

	assert.NoError(t, Multi{ok}.Store(context.Background(), torrent))
}
