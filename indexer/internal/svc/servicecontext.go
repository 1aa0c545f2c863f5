package svc

import (
	"context"

	"torrent-forge/indexer/internal/config"
	"torrent-forge/storage"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-amqp/v2/pkg/amqp"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/juju/errors"
)

// ExistenceChecker confirms bloom filter hits against the source of truth.
type ExistenceChecker interface {
	Exists(ctx context.Context, infoHash string) (bool, error)
}

type ServiceContext struct {
	Config  config.Config
	Storage storage.TorrentStorage
	// Checker is optional. Without it a bloom filter hit counts as a duplicate.
	Checker ExistenceChecker
	// Publisher is nil when no AMQP broker is configured.
	Publisher message.Publisher
}

func NewServiceContext(c config.Config) (*ServiceContext, error) {
	mongo := storage.MongoTorrentStorage{}
	svcCtx := &ServiceContext{
		Config:  c,
		Checker: mongo,
	}
	storages := storage.Multi{mongo}
	if len(c.ElasticSearch) > 0 {
		es, err := storage.NewESTorrentStorage(c.ElasticSearch)
		if err != nil {
			return nil, errors.Annotate(err, "connect elasticsearch")
		}
		storages = append(storages, es)
	}
	svcCtx.Storage = storages

	if len(c.AMQP) > 0 {
		amqpConfig := amqp.NewDurablePubSubConfig(c.AMQP, amqp.GenerateQueueNameTopicName)
		publisher, err := amqp.NewPublisher(amqpConfig, watermill.NewStdLogger(false, false))
		if err != nil {
			return nil, errors.Annotate(err, "connect amqp")
		}
		svcCtx.Publisher = publisher
	}
	return svcCtx, nil
}
