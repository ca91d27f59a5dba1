package server

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-thoinoi/internal/config"
)

// cacheItem stores one rendered download and its metadata for HTTP caching.
type cacheItem struct {
	data         []byte
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
}

// asset is a downloadable file whose body is swapped atomically.
type asset struct {
	contentType string
	disposition string
	cache       atomic.Pointer[cacheItem]
}

// AssetCache serves the generated downloads (calendar, contact card, QR code).
// The set of names is fixed at construction; only the contents change.
type AssetCache struct {
	assets map[string]*asset
}

// NewAssetCache registers the downloadable assets. Until Update is called for
// a name, requests for it get 503 with Retry-After.
func NewAssetCache() *AssetCache {
	return &AssetCache{
		assets: map[string]*asset{
			config.AssetEventICS: {contentType: config.MimeTextCalendar, disposition: config.DispositionICS},
			config.AssetHostVCF:  {contentType: config.MimeVCard, disposition: config.DispositionVCF},
			config.AssetQRCode:   {contentType: config.MimePNG},
		},
	}
}

// Update atomically replaces the content served for name.
func (c *AssetCache) Update(name string, data []byte) {
	a, ok := c.assets[name]
	if !ok {
		return
	}

	hash := sha256.Sum256(data)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	a.cache.Store(&cacheItem{
		data:         data,
		etag:         etag,
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	})

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyAsset, name,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, etag,
	)
}

// Handler serves name with conditional GET support.
func (c *AssetCache) Handler(name string) http.HandlerFunc {
	a := c.assets[name]
	return func(w http.ResponseWriter, r *http.Request) {
		var item *cacheItem
		if a != nil {
			item = a.cache.Load()
		}
		if item == nil {
			w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
			http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
			return
		}

		h := w.Header()
		h.Set(config.HeaderContentType, a.contentType)
		h.Set(config.HeaderXContentType, config.MimeNoSniff)
		h.Set(config.HeaderCacheControl, config.CacheControlPrivate)
		h.Set(config.HeaderETag, item.etag)
		h.Set(config.HeaderLastModified, item.lastModified)
		if a.disposition != "" {
			h.Set(config.HeaderDisposition, a.disposition)
		}

		if notModified(r, item) {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		if r.Method == http.MethodHead {
			return
		}
		if _, err := w.Write(item.data); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyAsset, name,
				config.LogKeyError, err,
			)
		}
	}
}

func notModified(r *http.Request, item *cacheItem) bool {
	if match := r.Header.Get(config.HeaderIfNoneMatch); match != "" {
		return match == item.etag
	}

	since := r.Header.Get(config.HeaderIfModifiedSince)
	if since == "" {
		return false
	}
	clientTime, err := time.Parse(http.TimeFormat, since)
	if err != nil {
		return false
	}
	serverTime, err := time.Parse(http.TimeFormat, item.lastModified)
	if err != nil {
		return false
	}
	// Not newer than the client's copy.
	return !serverTime.After(clientTime)
}
