package config

import (
	"github.com/juju/errors"
	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
)

// Config holds defaults for torrentforge. Command line flags override it.
type Config struct {
	Log         logx.LogConf `json:",optional"`
	CreatedBy   string       `json:",default=torrent-forge"`
	Comment     string       `json:",optional"`
	PieceLength int64        `json:",optional"`
	HashWorkers int          `json:",default=4"`
	Private     bool         `json:",optional"`
	Trackers    [][]string   `json:",optional"`
	WebSeeds    []string     `json:",optional"`
}

// Load reads path, or applies the defaults alone when path is empty.
func Load(path string) (*Config, error) {
	c := &Config{}
	var err error
	if path == "" {
		err = conf.LoadFromYamlBytes([]byte("{}"), c)
	} else {
		err = conf.Load(path, c)
	}
	if err != nil {
		return nil, errors.Annotatef(err, "load config %q", path)
	}
	return c, nil
}

func (c *Config) MustSetUp() {
	logx.MustSetup(c.Log)
}
