package bittorrent

import (
	"context"
	"crypto/sha1"

	"torrent-forge/common/executor"

	"github.com/juju/errors"
)

const (
	HashSize = sha1.Size

	MinPieceLength   int64 = 16 * 1024
	MaxPieceLength   int64 = 16 * 1024 * 1024
	targetPieceCount int64 = 1500

	hashQueuePerWorker = 4
)

// PieceLengthOptions lists the selectable piece sizes, 16 KiB to 16 MiB.
var PieceLengthOptions = []int64{
	16 << 10, 32 << 10, 64 << 10, 128 << 10, 256 << 10, 512 << 10,
	1 << 20, 2 << 20, 4 << 20, 8 << 20, 16 << 20,
}

// PieceHashes is the concatenation of every piece's SHA-1 digest in piece order.
type PieceHashes []byte

func (p PieceHashes) Count() int {
	return len(p) / HashSize
}

func (p PieceHashes) Piece(i int) [HashSize]byte {
	var h [HashSize]byte
	copy(h[:], p[i*HashSize:(i+1)*HashSize])
	return h
}

// PieceCount returns ceil(totalSize / pieceLength).
func PieceCount(totalSize, pieceLength int64) int64 {
	if totalSize <= 0 || pieceLength <= 0 {
		return 0
	}
	return (totalSize + pieceLength - 1) / pieceLength
}

// RecommendPieceLength picks the smallest power of two giving about 1500 pieces,
// clamped to [MinPieceLength, MaxPieceLength].
func RecommendPieceLength(totalSize int64) int64 {
	want := PieceCount(totalSize, targetPieceCount)
	l := MinPieceLength
	for l < want && l < MaxPieceLength {
		l <<= 1
	}
	return l
}

func validPieceLength(l int64) bool {
	return l > 0 && l&(l-1) == 0
}

// window is one piece expressed as sub-slices of the source buffers.
type window [][]byte

// splitWindows cuts the logical concatenation of contents into pieceLength
// windows without copying. Empty buffers contribute nothing.
func splitWindows(contents [][]byte, pieceLength int64) []window {
	var total int64
	for _, c := range contents {
		total += int64(len(c))
	}
	windows := make([]window, 0, PieceCount(total, pieceLength))
	var current window
	var filled int64
	for _, c := range contents {
		for len(c) > 0 {
			n := pieceLength - filled
			if int64(len(c)) < n {
				n = int64(len(c))
			}
			current = append(current, c[:n])
			filled += n
			c = c[n:]
			if filled == pieceLength {
				windows = append(windows, current)
				current = nil
				filled = 0
			}
		}
	}
	if filled > 0 {
		windows = append(windows, current)
	}
	return windows
}

func (w window) hash(dst []byte) {
	h := sha1.New()
	for _, seg := range w {
		h.Write(seg)
	}
	copy(dst, h.Sum(nil))
}

// HashPieces hashes contents sequentially.
func HashPieces(contents [][]byte, pieceLength int64) (PieceHashes, error) {
	h := &PieceHasher{PieceLength: pieceLength}
	return h.Hash(context.Background(), contents)
}

// PieceHasher computes piece hashes over the concatenation of file buffers.
// Pieces are not aligned to file boundaries. With Workers > 1 windows are
// hashed concurrently; output order is always window order.
type PieceHasher struct {
	PieceLength int64
	Workers     int
}

type hashTask struct {
	index  int
	window window
}

func (h *PieceHasher) Hash(ctx context.Context, contents [][]byte) (PieceHashes, error) {
	if !validPieceLength(h.PieceLength) {
		return nil, errors.Annotatef(ErrInvalidPieceLength, "%d", h.PieceLength)
	}
	windows := splitWindows(contents, h.PieceLength)
	out := make(PieceHashes, len(windows)*HashSize)
	if h.Workers <= 1 || len(windows) < 2 {
		for i, w := range windows {
			if err := ctx.Err(); err != nil {
				return nil, errors.Trace(err)
			}
			w.hash(out[i*HashSize : (i+1)*HashSize])
		}
		return out, nil
	}

	e := executor.NewExecutor[hashTask](ctx, h.Workers, h.Workers*hashQueuePerWorker, func(task hashTask) {
		task.window.hash(out[task.index*HashSize : (task.index+1)*HashSize])
	})
	e.Start()
	defer e.Stop()
	for i, w := range windows {
		if !e.Commit(hashTask{index: i, window: w}) {
			break
		}
	}
	if err := e.Wait(); err != nil {
		return nil, errors.Trace(err)
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	return out, nil
}
