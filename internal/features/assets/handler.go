package assets

import (
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/todospa/internal/pkg/logger"
)

// Files that browsers and extensions ask for on their own. Missing ones are
// not worth an error line.
var quietFiles = map[string]bool{
	"sw.js":         true,
	"favicon.ico":   true,
	"manifest.json": true,
}

// Asset is a resolved response body with its headers.
type Asset struct {
	Data        []byte
	ContentType string
	Encoding    string
}

type Handler struct {
	bundle *Bundle
	log    *logger.Logger
}

func NewHandler(bundle *Bundle, log *logger.Logger) *Handler {
	return &Handler{bundle: bundle, log: log}
}

// Serve answers every request no API route matched.
func (h *Handler) Serve(c *gin.Context) {
	name := normalize(c.Request.URL.Path)

	asset := h.Resolve(name, c.GetHeader("Accept-Encoding"))
	if asset == nil {
		h.logMiss(name)
		c.String(http.StatusNotFound, "File not found: %s", name)
		return
	}

	if asset.Encoding != "" {
		c.Header("Content-Encoding", asset.Encoding)
		c.Header("Vary", "Accept-Encoding")
	}
	c.Data(http.StatusOK, asset.ContentType, asset.Data)
}

// Resolve tries the exact file, then falls back to the entry point for paths
// that look like client-side routes. A nil result means 404.
func (h *Handler) Resolve(name, acceptEncoding string) *Asset {
	// Substring checks on purpose; q-values are not honoured.
	br := strings.Contains(acceptEncoding, "br")
	gz := strings.Contains(acceptEncoding, "gzip")

	if asset := h.lookup(name, br, gz); asset != nil {
		return asset
	}

	if !strings.Contains(name, ".") {
		h.log.Debug("Route '%s' not found, falling back to %s", name, IndexFile)
		return h.lookup(IndexFile, br, gz)
	}

	return nil
}

func (h *Handler) lookup(name string, br, gz bool) *Asset {
	contentType := contentTypeFor(name)

	if br {
		if data, ok := h.bundle.Get(name + brotliSuffix); ok {
			return &Asset{Data: data, ContentType: contentType, Encoding: "br"}
		}
	}
	if gz {
		if data, ok := h.bundle.Get(name + gzipSuffix); ok {
			return &Asset{Data: data, ContentType: contentType, Encoding: "gzip"}
		}
	}
	if data, ok := h.bundle.Get(name); ok {
		return &Asset{Data: data, ContentType: contentType}
	}
	return nil
}

func (h *Handler) logMiss(name string) {
	if quietFiles[name] || strings.Contains(name, ".well-known") {
		h.log.Debug("Quietly ignoring missing system/probe file: '%s'", name)
		return
	}
	h.log.Error("File not found: '%s'", name)
}

func normalize(urlPath string) string {
	name := strings.TrimPrefix(urlPath, "/")
	if name == "" {
		return IndexFile
	}
	return name
}

func contentTypeFor(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
