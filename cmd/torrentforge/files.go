package main

import (
	"io/fs"
	"os"
	"path/filepath"

	"torrent-forge/bittorrent"

	"github.com/juju/errors"
)

// collectFiles reads every input into memory. A single directory argument
// becomes the torrent root; with several arguments each keeps its base name.
func collectFiles(args []string) ([]bittorrent.FileEntry, string, error) {
	if len(args) == 1 {
		info, err := os.Stat(args[0])
		if err != nil {
			return nil, "", errors.Trace(err)
		}
		name := filepath.Base(filepath.Clean(args[0]))
		if info.IsDir() {
			files, err := walkDir(args[0], args[0])
			if err != nil {
				return nil, "", err
			}
			// one file is a single-file torrent, which is named after the file
			if len(files) == 1 {
				name = files[0].Path[len(files[0].Path)-1]
			}
			return files, name, nil
		}
		f, err := readFile(args[0], name)
		if err != nil {
			return nil, "", err
		}
		return []bittorrent.FileEntry{f}, name, nil
	}

	files := make([]bittorrent.FileEntry, 0, len(args))
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, "", errors.Trace(err)
		}
		if info.IsDir() {
			sub, err := walkDir(arg, filepath.Dir(filepath.Clean(arg)))
			if err != nil {
				return nil, "", err
			}
			files = append(files, sub...)
			continue
		}
		f, err := readFile(arg, filepath.Base(arg))
		if err != nil {
			return nil, "", err
		}
		files = append(files, f)
	}
	return files, filepath.Base(filepath.Clean(args[0])), nil
}

// walkDir visits regular files in lexical order.
func walkDir(dir, base string) ([]bittorrent.FileEntry, error) {
	files := make([]bittorrent.FileEntry, 0)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		f, err := readFile(path, filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		files = append(files, f)
		return nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	if len(files) == 0 {
		return nil, errors.Errorf("no files under %s", dir)
	}
	return files, nil
}

func readFile(path, rel string) (bittorrent.FileEntry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return bittorrent.FileEntry{}, errors.Trace(err)
	}
	return bittorrent.NewFileEntry(rel, content), nil
}
