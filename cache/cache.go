// Package cache stores translation results on disk, gzip-compressed,
// keyed by the translator fingerprint and the source text. Least recently
// used entries are evicted once the directory grows past a size cap.
package cache

import (
	"compress/gzip"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rubiojr/c2js/compiler"
)

// DefaultMaxBytes caps the cache directory size.
const DefaultMaxBytes = 64 * 1024 * 1024 // 64 MB

// Cache is a directory of compressed results.
type Cache struct {
	Dir      string
	MaxBytes int64
}

// Dir returns the cache directory: $C2JS_CACHE_DIR when set, else
// ~/.cache/c2js/results.
func Dir() (string, error) {
	if d := os.Getenv("C2JS_CACHE_DIR"); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "c2js", "results"), nil
}

// Open returns a cache rooted at Dir().
func Open() (*Cache, error) {
	dir, err := Dir()
	if err != nil {
		return nil, fmt.Errorf("cache dir: %w", err)
	}
	return &Cache{Dir: dir, MaxBytes: DefaultMaxBytes}, nil
}

// Key returns a hex hash for a translator fingerprint and a source text.
// The fingerprint carries the capability table version, so a table change
// never serves stale output.
func Key(fingerprint, source string) string {
	h := sha256.New()
	h.Write([]byte(fingerprint))
	h.Write([]byte{0}) // separator
	h.Write([]byte(source))
	return fmt.Sprintf("%x", h.Sum(nil))[:32]
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.Dir, key+".json.gz")
}

// Get returns the cached result for key. A hit touches the entry to update
// its LRU timestamp. Unreadable entries count as misses.
func (c *Cache) Get(key string) (*compiler.Result, bool) {
	p := c.path(key)
	f, err := os.Open(p)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return nil, false
	}
	defer gr.Close()

	var res compiler.Result
	if err := json.NewDecoder(gr).Decode(&res); err != nil {
		return nil, false
	}
	if res.Undeclared == nil {
		res.Undeclared = []string{}
	}
	now := time.Now()
	os.Chtimes(p, now, now)
	return &res, true
}

// Put stores res under key, then evicts old entries if the cache exceeds
// its size cap. The entry is written to a temporary file and renamed so
// concurrent readers never see a partial file.
func (c *Cache) Put(key string, res *compiler.Result) error {
	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(c.Dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating cache entry: %w", err)
	}
	defer os.Remove(tmp.Name())

	gw, err := gzip.NewWriterLevel(tmp, gzip.BestSpeed)
	if err != nil {
		tmp.Close()
		return err
	}
	if err := json.NewEncoder(gw).Encode(res); err != nil {
		gw.Close()
		tmp.Close()
		return fmt.Errorf("encoding cache entry: %w", err)
	}
	if err := gw.Close(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), c.path(key)); err != nil {
		return fmt.Errorf("storing cache entry: %w", err)
	}
	c.evict()
	return nil
}

// evict removes the oldest entries until the cache is under the size cap.
func (c *Cache) evict() {
	max := c.MaxBytes
	if max <= 0 {
		max = DefaultMaxBytes
	}
	entries, err := os.ReadDir(c.Dir)
	if err != nil {
		return
	}

	type entry struct {
		path    string
		size    int64
		modTime time.Time
	}

	var files []entry
	var totalSize int64
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(c.Dir, e.Name())
		files = append(files, entry{path: path, size: info.Size(), modTime: info.ModTime()})
		totalSize += info.Size()
	}

	if totalSize <= max {
		return
	}

	// Sort oldest first.
	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime.Before(files[j].modTime)
	})

	for _, f := range files {
		if totalSize <= max {
			break
		}
		os.Remove(f.path)
		totalSize -= f.size
	}
}
