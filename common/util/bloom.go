package util

import (
	"encoding/binary"
	"io"
	"sync"

	"github.com/juju/errors"
	"github.com/spaolacci/murmur3"
)

const (
	bitsPerByte = 8
	headerSize  = 8 + 8 + 1
)

type BloomFilter struct {
	lock sync.RWMutex

	m    uint64
	n    uint64
	k    uint8
	keys []byte
}

// http://pages.cs.wisc.edu/~cao/papers/summary-cache/node8.html
func NewBloomFilter(bits uint64) *BloomFilter {
	if bits == 0 {
		bits = bitsPerByte
	}
	filter := &BloomFilter{}
	filter.m = bits
	filter.k = 7
	filter.keys = make([]byte, (bits+bitsPerByte-1)/bitsPerByte)
	return filter
}

func LoadBloomFilter(reader io.Reader) (*BloomFilter, error) {
	header := make([]byte, headerSize)
	_, err := io.ReadFull(reader, header)
	if err != nil {
		return nil, errors.Annotate(err, "read bloom filter header")
	}
	keys, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Trace(err)
	}
	filter := &BloomFilter{
		m:    binary.BigEndian.Uint64(header[0:8]),
		n:    binary.BigEndian.Uint64(header[8:16]),
		k:    header[16],
		keys: keys,
	}
	if filter.m == 0 || uint64(len(keys))*bitsPerByte < filter.m {
		return nil, errors.Errorf("bloom filter truncated: %d bits declared, %d bytes of keys", filter.m, len(keys))
	}
	return filter, nil
}

func (f *BloomFilter) Add(data []byte) {
	f.lock.Lock()
	defer f.lock.Unlock()

	for _, loc := range f.getLocations(data) {
		f.keys[loc/bitsPerByte] |= 1 << (loc % bitsPerByte)
	}

	f.n++
}

func (f *BloomFilter) Exists(data []byte) bool {
	f.lock.RLock()
	defer f.lock.RUnlock()

	for _, loc := range f.getLocations(data) {
		if f.keys[loc/bitsPerByte]&(1<<(loc%bitsPerByte)) == 0 {
			return false
		}
	}

	return true
}

// Count is the number of Add calls.
func (f *BloomFilter) Count() uint64 {
	f.lock.RLock()
	defer f.lock.RUnlock()
	return f.n
}

func (f *BloomFilter) Save(writer io.Writer) error {
	f.lock.RLock()
	defer f.lock.RUnlock()

	header := make([]byte, 0, headerSize)
	header = binary.BigEndian.AppendUint64(header, f.m)
	header = binary.BigEndian.AppendUint64(header, f.n)
	header = append(header, f.k)
	_, err := writer.Write(header)
	if err != nil {
		return errors.Trace(err)
	}
	_, err = writer.Write(f.keys)
	if err != nil {
		return errors.Trace(err)
	}
	return nil
}

func (f *BloomFilter) getLocations(data []byte) []uint64 {
	locations := make([]uint64, f.k)
	for i := uint8(0); i < f.k; i++ {
		locations[i] = baseHash(data, i) % f.m
	}

	return locations
}

func baseHash(data []byte, seed uint8) uint64 {
	hasher := murmur3.New64()
	hasher.Write(data)
	hasher.Write([]byte{seed})
	return hasher.Sum64()
}
