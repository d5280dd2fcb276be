package assets

import (
	"bytes"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"
)

const (
	IndexFile    = "index.html"
	brotliSuffix = ".br"
	gzipSuffix   = ".gz"
)

// compressible lists extensions worth gzipping at startup.
var compressible = map[string]bool{
	".html": true, ".js": true, ".mjs": true, ".css": true, ".json": true,
	".svg": true, ".txt": true, ".xml": true, ".map": true, ".webmanifest": true,
}

// Bundle is the immutable asset table. It is filled once by LoadBundle and
// only read afterwards, so concurrent requests need no locking.
type Bundle struct {
	files map[string][]byte
}

// NewBundle wraps an in-memory file table, keyed by slash path without a
// leading slash.
func NewBundle(files map[string][]byte) *Bundle {
	return &Bundle{files: files}
}

// LoadBundle reads every regular file of fsys into memory. With precompress
// set, compressible files lacking a .gz sibling get one generated.
func LoadBundle(fsys fs.FS, precompress bool) (*Bundle, error) {
	files := make(map[string][]byte)
	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("read asset %s: %w", name, err)
		}
		files[name] = data
		return nil
	})
	if err != nil {
		return nil, err
	}

	b := &Bundle{files: files}
	if precompress {
		if err := b.gzipMissing(); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (b *Bundle) Get(name string) ([]byte, bool) {
	data, ok := b.files[name]
	return data, ok
}

// Names returns the sorted list of bundled files.
func (b *Bundle) Names() []string {
	names := make([]string, 0, len(b.files))
	for name := range b.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (b *Bundle) Len() int { return len(b.files) }

func (b *Bundle) gzipMissing() error {
	for _, name := range b.Names() {
		if strings.HasSuffix(name, gzipSuffix) || strings.HasSuffix(name, brotliSuffix) {
			continue
		}
		if !compressible[strings.ToLower(path.Ext(name))] {
			continue
		}
		if _, ok := b.files[name+gzipSuffix]; ok {
			continue
		}

		compressed, err := gzipBytes(b.files[name])
		if err != nil {
			return fmt.Errorf("gzip asset %s: %w", name, err)
		}
		if len(compressed) < len(b.files[name]) {
			b.files[name+gzipSuffix] = compressed
		}
	}
	return nil
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
