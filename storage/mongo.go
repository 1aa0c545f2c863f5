package storage

import (
	"context"

	"torrent-forge/common/model"

	"github.com/juju/errors"
	"github.com/kamva/mgm/v3"
	"github.com/kamva/mgm/v3/operator"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ TorrentStorage = (*MongoTorrentStorage)(nil)

// MongoTorrentStorage upserts into the default mgm connection, see model.InitMongo.
type MongoTorrentStorage struct{}

func (m MongoTorrentStorage) Store(ctx context.Context, t *model.Torrent) error {
	col := mgm.Coll(t)
	opts := options.Update().SetUpsert(true)
	_, err := col.UpdateByID(ctx, t.InfoHash, bson.M{operator.Set: t}, opts)
	if err != nil {
		logrus.Errorf("Failed to save torrent %s %s %v", t.InfoHash, t.Name, err)
		return errors.Trace(err)
	}
	logrus.Infof("Saved torrent %s %s", t.InfoHash, t.Name)
	return nil
}

// Exists reports whether a torrent with infoHash is stored.
func (m MongoTorrentStorage) Exists(ctx context.Context, infoHash string) (bool, error) {
	err := mgm.Coll(&model.Torrent{}).FindOne(ctx, bson.M{"_id": infoHash}, options.FindOne().SetProjection(bson.M{"_id": true})).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, errors.Trace(err)
	}
	return true, nil
}
