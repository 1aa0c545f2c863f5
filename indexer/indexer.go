package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"torrent-forge/common/model"
	"torrent-forge/indexer/internal/config"
	"torrent-forge/indexer/internal/svc"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/service"
)

var configFile = flag.String("f", "etc/indexer.yaml", "the config file")

func main() {
	flag.Parse()

	var c config.Config
	conf.MustLoad(*configFile, &c)
	c.MustSetUp()

	err := model.InitMongo(c.MongoDatabase, c.Mongo)
	if err != nil {
		logx.Errorf("Failed to initialize MongoDB: %+v", err)
		panic(err)
	}

	svcCtx, err := svc.NewServiceContext(c)
	if err != nil {
		logx.Errorf("Failed to initialize service context: %+v", err)
		panic(err)
	}

	ctx, _ := signal.NotifyContext(context.TODO(), os.Interrupt)
	indexer, err := svc.NewIndexer(ctx, svcCtx)
	if err != nil {
		logx.Errorf("Failed to initialize indexer: %+v", err)
		panic(err)
	}

	group := service.NewServiceGroup()
	defer group.Stop()

	group.Add(indexer)

	logx.Infof("Starting indexer on %s...", c.WatchDir)
	group.Start()
}
