package config

import (
	"time"

	"github.com/zeromicro/go-zero/core/proc"
	"github.com/zeromicro/go-zero/core/service"
)

type Config struct {
	service.ServiceConf
	Mongo            string
	MongoDatabase    string `json:",default=torrent_forge"`
	ElasticSearch    string `json:",optional"`
	AMQP             string `json:",optional"`
	WatchDir         string
	ScanInterval     int    `json:",default=10"`
	BloomFilterPath  string `json:",default=bloom.bin"`
	BloomFilterBits  uint64 `json:",default=16777216"`
	ForceQuitSeconds int    `json:",default=20"`
}

func (c *Config) MustSetUp() {
	c.ServiceConf.MustSetUp()
	proc.SetTimeToForceQuit(time.Duration(c.ForceQuitSeconds) * time.Second)
}
