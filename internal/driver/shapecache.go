package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// shapeCacheSchemaVersion invalidates cached payloads when the ShapeExport
// format changes. Bump on every incompatible change.
const shapeCacheSchemaVersion uint16 = 1

// ShapeCache persists declaration shapes on disk, keyed by the content
// hash of the tree export, so repeated shape queries over unchanged input
// skip the pipeline entirely. Safe for concurrent use.
type ShapeCache struct {
	mu  sync.RWMutex
	dir string
}

// ShapePayload is the on-disk record.
type ShapePayload struct {
	Schema    uint16       `msgpack:"schema"`
	Path      string       `msgpack:"path"`
	InputHash string       `msgpack:"input_hash"`
	Stored    time.Time    `msgpack:"stored"`
	HadErrors bool         `msgpack:"had_errors"`
	Shape     *ShapeExport `msgpack:"shape"`
}

// ErrCacheMiss reports that no valid entry exists for the key.
var ErrCacheMiss = errors.New("shape cache miss")

// NewShapeCache opens (creating when needed) a cache rooted at dir.
func NewShapeCache(dir string) (*ShapeCache, error) {
	if dir == "" {
		return nil, errors.New("shape cache dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create shape cache dir: %w", err)
	}
	return &ShapeCache{dir: dir}, nil
}

// Key hashes raw tree-export bytes into a cache key.
func (c *ShapeCache) Key(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (c *ShapeCache) path(key string) string {
	return filepath.Join(c.dir, key+".shape.msgpack")
}

// Load returns the cached payload for key, or ErrCacheMiss when the entry
// is absent, unreadable, or written by an incompatible schema.
func (c *ShapeCache) Load(key string) (*ShapePayload, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.path(key)) // #nosec G304 -- path derives from a hex digest
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("read shape cache entry: %w", err)
	}

	var payload ShapePayload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		// Treat corrupt entries as misses; the writer will replace them.
		return nil, ErrCacheMiss
	}
	if payload.Schema != shapeCacheSchemaVersion || payload.InputHash != key {
		return nil, ErrCacheMiss
	}
	return &payload, nil
}

// Store writes the payload for key atomically (temp file plus rename).
func (c *ShapeCache) Store(key string, payload *ShapePayload) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	payload.Schema = shapeCacheSchemaVersion
	payload.InputHash = key
	if payload.Stored.IsZero() {
		payload.Stored = time.Now().UTC()
	}

	data, err := msgpack.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode shape cache entry: %w", err)
	}

	final := c.path(key)
	tmp, err := os.CreateTemp(c.dir, "shape-*.tmp")
	if err != nil {
		return fmt.Errorf("create shape cache temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write shape cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close shape cache entry: %w", err)
	}
	if err := os.Rename(tmpName, final); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("commit shape cache entry: %w", err)
	}
	return nil
}
