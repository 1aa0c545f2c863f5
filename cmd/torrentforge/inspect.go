package main

import (
	"flag"
	"io"
	"os"

	"torrent-forge/bittorrent"

	"github.com/juju/errors"
	"gopkg.in/yaml.v3"
)

func runInspect(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	isBase64 := fs.Bool("base64", false, "the file holds base64 text")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("inspect takes exactly one file")
	}
	raw, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return errors.Trace(err)
	}
	var info *bittorrent.TorrentInfo
	if *isBase64 {
		info, err = bittorrent.ReadBase64(string(raw))
	} else {
		info, err = bittorrent.Read(raw)
	}
	if err != nil {
		return errors.Annotatef(err, "read %s", fs.Arg(0))
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err = enc.Encode(info); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(enc.Close())
}
