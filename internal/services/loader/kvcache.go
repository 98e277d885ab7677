package loader

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/syndtr/goleveldb/leveldb"
)

// KVCache is a gzip-wrapped goleveldb store standing in for the external
// key/value cache collaborator named in spec.md §6 — the Go analogue of
// the original loader's Redis-backed fixture cache.
type KVCache struct {
	db *leveldb.DB
}

// NewKVCache opens (or creates) a goleveldb database at path.
func NewKVCache(path string) (*KVCache, error) {
	const op = "loader.NewKVCache"

	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &KVCache{db: db}, nil
}

// Get returns the gzip-decompressed bytes stored under key, or
// leveldb.ErrNotFound (wrapped) on a miss.
func (c *KVCache) Get(key string) ([]byte, error) {
	const op = "loader.KVCache.Get"

	compressed, err := c.db.Get([]byte(key), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	gz, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer gz.Close()

	raw, err := io.ReadAll(gz)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return raw, nil
}

// Put gzip-compresses raw and stores it under key.
func (c *KVCache) Put(key string, raw []byte) error {
	const op = "loader.KVCache.Put"

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(raw); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := c.db.Put([]byte(key), buf.Bytes(), nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *KVCache) Close() error {
	return c.db.Close()
}
