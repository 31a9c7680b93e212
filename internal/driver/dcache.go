package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"minic/internal/checker"
	"minic/internal/diag"
	"minic/internal/source"
	"minic/internal/version"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// Key addresses one cached check: file content plus everything that affects the output.
type Key [32]byte

func (k Key) String() string { return hex.EncodeToString(k[:]) }

// DiskCache хранит результаты проверки файлов на диске.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the msgpack body of one cache entry.
type DiskPayload struct {
	Schema uint16
	Path   string

	Check       checker.Result
	Errors      int
	Warnings    int
	OK          bool
	Dropped     int
	Diagnostics []diag.Diagnostic // spans are re-pointed at the loading file on Get
}

// OpenDiskCache opens $XDG_CACHE_HOME/<app>/checks, falling back to ~/.cache.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app, "checks"))
}

// OpenDiskCacheAt opens a cache rooted at dir, creating it if needed.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// CacheKey derives the key from the file hash, the options that change
// check output and the tool version.
func CacheKey(file *source.File, opts Options) Key {
	h := sha256.New()
	var schema [2]byte
	schema[0] = byte(diskCacheSchemaVersion >> 8)
	schema[1] = byte(diskCacheSchemaVersion)
	_, _ = h.Write(schema[:])
	_, _ = h.Write([]byte(version.Version))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(file.Hash[:])
	_, _ = h.Write([]byte(opts.fingerprint()))
	var k Key
	copy(k[:], h.Sum(nil))
	return k
}

func (c *DiskCache) pathFor(key Key) string {
	hexKey := key.String()
	// двухсимвольный префикс, чтобы не держать тысячи файлов в одном каталоге
	return filepath.Join(c.dir, hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload. The write is atomic: temp file + rename.
func (c *DiskCache) Put(key Key, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		// после успешного Rename файла уже нет
		_ = os.Remove(tmp)
	}()

	payload.Schema = diskCacheSchemaVersion
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// Get reads a payload. A missing entry or one from another schema is a miss.
func (c *DiskCache) Get(key Key, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll removes every entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// переименуем каталог целиком, затем удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405.000000000")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return os.MkdirAll(c.dir, 0o755)
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

func lookupCache(opts Options, src *source.File, res *Result) bool {
	var payload DiskPayload
	ok, err := opts.Cache.Get(CacheKey(src, opts), &payload)
	if err != nil || !ok {
		return false
	}
	bag := diag.NewBag(opts.maxDiagnostics())
	for _, d := range payload.Diagnostics {
		bag.Add(repoint(d, src.ID))
	}
	for i := 0; i < payload.Dropped; i++ {
		bag.Add(diag.Diagnostic{}) // only bumps Dropped: the bag is full here
	}
	check := payload.Check
	res.Bag = bag
	res.Check = &check
	res.Errors = payload.Errors
	res.Warnings = payload.Warnings
	res.OK = payload.OK
	res.Cached = true
	return true
}

func storeCache(opts Options, res *Result) {
	if res.Check == nil {
		return
	}
	_ = opts.Cache.Put(CacheKey(res.Source, opts), &DiskPayload{
		Path:        res.Source.Path,
		Check:       *res.Check,
		Errors:      res.Errors,
		Warnings:    res.Warnings,
		OK:          res.OK,
		Dropped:     res.Bag.Dropped(),
		Diagnostics: res.Bag.Items(),
	})
}

func repoint(d diag.Diagnostic, id source.FileID) diag.Diagnostic {
	d.Primary.File = id
	if len(d.Notes) > 0 {
		notes := make([]diag.Note, len(d.Notes))
		for i, n := range d.Notes {
			n.Span.File = id
			notes[i] = n
		}
		d.Notes = notes
	}
	if len(d.Fixes) > 0 {
		fixes := make([]diag.Fix, len(d.Fixes))
		for i, f := range d.Fixes {
			edits := make([]diag.FixEdit, len(f.Edits))
			for j, e := range f.Edits {
				e.Span.File = id
				edits[j] = e
			}
			fixes[i] = diag.Fix{Title: f.Title, Edits: edits}
		}
		d.Fixes = fixes
	}
	return d
}
