package svc

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"torrent-forge/bittorrent"
	"torrent-forge/common/model"
	"torrent-forge/common/util"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/juju/errors"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/metric"
)

const (
	metricNamespace = "torrent_forge"
	metricSubsystem = "indexer"
	torrentExt      = ".torrent"
)

var (
	metricCounter = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: metricNamespace,
		Subsystem: metricSubsystem,
		Name:      "counter",
		Labels:    []string{"type"},
	})
	metricGauge = metric.NewGaugeVec(&metric.GaugeVecOpts{
		Namespace: metricNamespace,
		Subsystem: metricSubsystem,
		Name:      "gauge",
		Labels:    []string{"type"},
	})
)

type Indexer struct {
	ctx    context.Context
	cancel context.CancelFunc
	svcCtx *ServiceContext

	bloomFilter *util.BloomFilter
	// scanned maps a file path to the modification time it was indexed at.
	scanned map[string]time.Time

	scanTicker *time.Ticker
	scanNow    chan struct{}
}

func NewIndexer(ctx context.Context, svcCtx *ServiceContext) (*Indexer, error) {
	interval := time.Duration(svcCtx.Config.ScanInterval) * time.Second
	if interval <= 0 {
		interval = 10 * time.Second
	}
	i := &Indexer{
		svcCtx:     svcCtx,
		scanned:    make(map[string]time.Time),
		scanTicker: time.NewTicker(interval),
		scanNow:    make(chan struct{}, 1),
	}
	i.ctx, i.cancel = context.WithCancel(ctx)
	var err error
	i.bloomFilter, err = loadBloomFilter(svcCtx.Config.BloomFilterPath, svcCtx.Config.BloomFilterBits)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return i, nil
}

func loadBloomFilter(path string, bits uint64) (*util.BloomFilter, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return util.NewBloomFilter(bits), nil
	}
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer f.Close()
	filter, err := util.LoadBloomFilter(f)
	if err != nil {
		return nil, errors.Annotatef(err, "load bloom filter %s", path)
	}
	logx.Infof("Loaded bloom filter with %d entries", filter.Count())
	return filter, nil
}

func (i *Indexer) Start() {
	util.Notify(i.scanNow)
	for {
		select {
		case <-i.ctx.Done():
			return
		case <-i.scanNow:
			i.runScan()
		case <-i.scanTicker.C:
			util.EmptyChannel(i.scanNow)
			i.runScan()
		}
	}
}

func (i *Indexer) runScan() {
	cnt, err := i.Scan()
	if err != nil {
		logx.Errorf("Failed to scan %s: %+v", i.svcCtx.Config.WatchDir, err)
		return
	}
	if cnt > 0 {
		logx.Infof("Indexed %d torrents", cnt)
	}
	metricGauge.Set(float64(i.bloomFilter.Count()), "torrent_seen")
}

func (i *Indexer) Stop() {
	i.scanTicker.Stop()
	i.cancel()
	if i.svcCtx.Publisher != nil {
		if err := i.svcCtx.Publisher.Close(); err != nil {
			logx.Errorf("Failed to close publisher: %+v", err)
		}
	}
	if err := i.saveBloomFilter(); err != nil {
		logx.Errorf("Failed to save bloom filter: %+v", err)
	}
}

// saveBloomFilter writes through a temporary file and renames it into place.
func (i *Indexer) saveBloomFilter() error {
	path := i.svcCtx.Config.BloomFilterPath
	tmpFilePath := path + ".tmp"
	logx.Infof("Writing bloom filter to tmp file: %s", tmpFilePath)
	f, err := os.Create(tmpFilePath)
	if err != nil {
		return errors.Trace(err)
	}
	err = i.bloomFilter.Save(f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(os.Rename(tmpFilePath, path))
}

// Scan indexes every new or modified .torrent file directly under WatchDir
// and returns how many torrents were stored. A file that fails to decode is
// logged and skipped.
func (i *Indexer) Scan() (int, error) {
	dir := i.svcCtx.Config.WatchDir
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, errors.Trace(err)
	}
	cnt := 0
	for _, entry := range entries {
		if i.ctx.Err() != nil {
			return cnt, errors.Trace(i.ctx.Err())
		}
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), torrentExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			logx.Errorf("Failed to stat %s: %+v", entry.Name(), err)
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if modTime, ok := i.scanned[path]; ok && modTime.Equal(info.ModTime()) {
			continue
		}
		stored, err := i.indexFile(path)
		if err != nil {
			logx.Errorf("Failed to index %s: %+v", path, err)
			metricCounter.Inc("index_fail")
			continue
		}
		i.scanned[path] = info.ModTime()
		if stored {
			cnt++
		}
	}
	return cnt, nil
}

func (i *Indexer) indexFile(path string) (bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return false, errors.Trace(err)
	}
	info, err := bittorrent.Read(raw)
	if err != nil {
		metricCounter.Inc("decode_fail")
		return false, errors.Trace(err)
	}
	hash, err := hex.DecodeString(info.InfoHash)
	if err != nil {
		return false, errors.Trace(err)
	}
	if i.bloomFilter.Exists(hash) && i.confirmExists(info.InfoHash) {
		logx.Debugf("Skip known torrent %s %s", info.InfoHash, info.Name)
		metricCounter.Inc("duplicate")
		return false, nil
	}

	t := model.NewTorrentFromInfo(info, path)
	if !t.Valid() {
		metricCounter.Inc("invalid")
		return false, nil
	}
	if err = i.svcCtx.Storage.Store(i.ctx, t); err != nil {
		return false, errors.Trace(err)
	}
	metricCounter.Inc("torrent_stored")
	if err = i.publish(t); err != nil {
		logx.Errorf("Failed to publish torrent %s %s: %+v", t.InfoHash, t.Name, err)
	}
	i.bloomFilter.Add(hash)
	return true, nil
}

// confirmExists treats a bloom filter hit as a duplicate unless the checker
// proves otherwise.
func (i *Indexer) confirmExists(infoHash string) bool {
	if i.svcCtx.Checker == nil {
		return true
	}
	exists, err := i.svcCtx.Checker.Exists(i.ctx, infoHash)
	if err != nil {
		logx.Errorf("Failed to check torrent %s: %+v", infoHash, err)
		return true
	}
	if !exists {
		metricCounter.Inc("bloom_false_positive")
	}
	return exists
}

func (i *Indexer) publish(t *model.Torrent) error {
	if i.svcCtx.Publisher == nil {
		return nil
	}
	raw, err := json.Marshal(t)
	if err != nil {
		return errors.Trace(err)
	}
	msg := message.NewMessage(watermill.NewUUID(), raw)
	if err = i.svcCtx.Publisher.Publish(model.TopicTorrentIndexed, msg); err != nil {
		return errors.Trace(err)
	}
	metricCounter.Inc("torrent_published")
	return nil
}
