package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"

	"torrent-forge/bittorrent"
	"torrent-forge/config"

	"github.com/juju/errors"
	"github.com/zeromicro/go-zero/core/logx"
)

func runCreate(args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	configFile := fs.String("f", "", "optional config file with defaults")
	name := fs.String("name", "", "torrent name, defaults to the base name of the first path")
	output := fs.String("o", "", "output file, defaults to <name>.torrent")
	pieceLength := fs.Int64("piece-length", -1, "piece length in bytes, 0 picks one automatically")
	comment := fs.String("comment", "", "comment")
	createdBy := fs.String("created-by", "", "created by")
	private := fs.Bool("private", false, "mark the torrent private")
	workers := fs.Int("workers", 0, "hashing workers")
	var trackers, webSeeds listFlag
	fs.Var(&trackers, "tracker", "comma separated tracker tier, repeat for more tiers")
	fs.Var(&webSeeds, "webseed", "web seed URL, repeatable")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("no input paths")
	}

	c, err := config.Load(*configFile)
	if err != nil {
		return err
	}
	c.MustSetUp()

	files, defaultName, err := collectFiles(fs.Args())
	if err != nil {
		return err
	}
	meta := &bittorrent.TorrentMetadata{
		Name:        firstNonEmpty(*name, defaultName),
		Comment:     firstNonEmpty(*comment, c.Comment),
		CreatedBy:   firstNonEmpty(*createdBy, c.CreatedBy),
		PieceLength: c.PieceLength,
		Trackers:    c.Trackers,
		WebSeeds:    c.WebSeeds,
		Files:       files,
	}
	if *pieceLength >= 0 {
		meta.PieceLength = *pieceLength
	}
	if *private || c.Private {
		isPrivate := true
		meta.Private = &isPrivate
	}
	if len(trackers) > 0 {
		meta.Trackers = parseTiers(trackers)
	}
	if len(webSeeds) > 0 {
		meta.WebSeeds = webSeeds
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	builder := bittorrent.NewBuilder()
	builder.Workers = c.HashWorkers
	if *workers > 0 {
		builder.Workers = *workers
	}
	out, err := builder.Build(ctx, meta)
	if err != nil {
		return errors.Trace(err)
	}

	path := *output
	if path == "" {
		path = bittorrent.FileName(meta.Name)
	}
	if err = os.WriteFile(path, out, 0644); err != nil {
		return errors.Trace(err)
	}
	logx.Infof("Wrote %s (%s, %d files, %d bytes)", path, bittorrent.MIMEType, len(files), len(out))
	return nil
}

// parseTiers turns each "a,b" flag value into one tier.
func parseTiers(values []string) [][]string {
	tiers := make([][]string, 0, len(values))
	for _, v := range values {
		tier := make([]string, 0)
		for _, u := range strings.Split(v, ",") {
			if u = strings.TrimSpace(u); u != "" {
				tier = append(tier, u)
			}
		}
		if len(tier) > 0 {
			tiers = append(tiers, tier)
		}
	}
	return tiers
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
