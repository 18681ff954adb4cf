// Package assets provides the read-only raster store used by the center
// overlay. Assets are PNG (or other raster) blobs keyed by the lowercase
// hex code points of an emoji, e.g. "1f9ed" for 🧭 and "1f590-fe0f" for 🖐️.
//
// A missing asset is a normal result, not an error: callers fall back to
// drawing the glyph as text.
package assets

import (
	"encoding/base64"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultDir is the conventional asset directory, relative to the working directory.
const DefaultDir = "emoji_assets"

const variationSelector = 0xfe0f

// Store looks up raster assets by key. Implementations must be safe for
// concurrent use.
type Store interface {
	Lookup(key string) ([]byte, bool)
}

// Key returns the asset key for glyph: its code points in lowercase hex
// joined with "-". The empty glyph has the empty key.
func Key(glyph string) string {
	parts := make([]string, 0, 2)
	for _, r := range glyph {
		parts = append(parts, strconv.FormatInt(int64(r), 16))
	}
	return strings.Join(parts, "-")
}

// Keys returns the keys to try for glyph, most specific first. Glyphs with
// an emoji variation selector also try the key without it.
func Keys(glyph string) []string {
	glyph = strings.TrimSpace(glyph)
	if glyph == "" {
		return nil
	}
	keys := []string{Key(glyph)}
	if stripped := strings.ReplaceAll(glyph, string(rune(variationSelector)), ""); stripped != glyph && stripped != "" {
		keys = append(keys, Key(stripped))
	}
	return keys
}

// Resolve returns the first asset found for glyph.
func Resolve(s Store, glyph string) ([]byte, bool) {
	if s == nil {
		return nil, false
	}
	for _, k := range Keys(glyph) {
		if blob, ok := s.Lookup(k); ok {
			return blob, true
		}
	}
	return nil, false
}

// DataURI encodes blob as a base64 data URI with its detected MIME type.
func DataURI(blob []byte) string {
	mime := mimetype.Detect(blob).String()
	if !strings.HasPrefix(mime, "image/") {
		mime = "image/png"
	}
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(blob)
}

// FS serves "<key>.png" files from a file system.
type FS struct {
	fsys fs.FS
}

// NewFS returns a store reading from fsys.
func NewFS(fsys fs.FS) FS { return FS{fsys: fsys} }

// NewDir returns a store reading from a directory on disk.
func NewDir(dir string) FS { return FS{fsys: os.DirFS(dir)} }

// Lookup implements Store.
func (s FS) Lookup(key string) ([]byte, bool) {
	if s.fsys == nil || !validKey(key) {
		return nil, false
	}
	blob, err := fs.ReadFile(s.fsys, key+".png")
	if err != nil || len(blob) == 0 {
		return nil, false
	}
	return blob, true
}

// Exists reports whether dir is an existing directory.
func Exists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

func validKey(key string) bool {
	if key == "" {
		return false
	}
	for _, c := range key {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && c != '-' {
			return false
		}
	}
	return true
}

// Map is an in-memory store.
type Map map[string][]byte

// Lookup implements Store.
func (m Map) Lookup(key string) ([]byte, bool) {
	blob, ok := m[key]
	return blob, ok && len(blob) > 0
}

// None is a store with no assets.
type None struct{}

// Lookup implements Store.
func (None) Lookup(string) ([]byte, bool) { return nil, false }

// Memo caches the results of an underlying store, including misses.
type Memo struct {
	store Store
	mu    sync.RWMutex
	hits  map[string][]byte
	miss  map[string]struct{}
}

// NewMemo wraps s.
func NewMemo(s Store) *Memo {
	return &Memo{store: s, hits: make(map[string][]byte), miss: make(map[string]struct{})}
}

// Lookup implements Store.
func (m *Memo) Lookup(key string) ([]byte, bool) {
	m.mu.RLock()
	blob, hit := m.hits[key]
	_, missed := m.miss[key]
	m.mu.RUnlock()
	if hit {
		return blob, true
	}
	if missed {
		return nil, false
	}

	blob, ok := m.store.Lookup(key)
	m.mu.Lock()
	if ok {
		m.hits[key] = blob
	} else {
		m.miss[key] = struct{}{}
	}
	m.mu.Unlock()
	return blob, ok
}
