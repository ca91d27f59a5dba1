package gallery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/tartampluch/go-thoinoi/internal/config"
	"github.com/tartampluch/go-thoinoi/internal/engine"
	"github.com/zalando/go-keyring"
)

// Defaults is the built-in photo set used when no manifest is configured.
func Defaults() []Item {
	return []Item{
		{ID: 1, URL: "https://images.unsplash.com/photo-1544367567-0f2fcb009e0b?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80", CaptionKey: config.TKeyCaptionSleeping, Likes: 15},
		{ID: 2, URL: "https://images.unsplash.com/photo-1515488042361-ee00e0ddd4e4?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80", CaptionKey: config.TKeyCaptionSmile, Likes: 23},
		{ID: 3, URL: "https://images.unsplash.com/photo-1503454537195-1dcabb73ffb9?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80", CaptionKey: config.TKeyCaptionPlaying, Likes: 18},
		{ID: 4, URL: "https://images.unsplash.com/photo-1522771739844-6a9f6d5f14af?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80", CaptionKey: config.TKeyCaptionMoment, Likes: 31},
	}
}

// manifestPhoto is one entry of a JSON manifest:
//
//	[{"url": "https://...", "caption": "...", "likes": 12}]
type manifestPhoto struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
	Likes   int    `json:"likes"`
}

// PasswordFunc looks up the password for a manifest user.
type PasswordFunc func(user string) (string, error)

// KeyringPassword reads the password stored by the -store-password flag.
func KeyringPassword(user string) (string, error) {
	return keyring.Get(config.KeyringService, user)
}

// Loader resolves the configured manifest source into a photo list.
type Loader struct {
	Fetcher  engine.Fetcher
	Password PasswordFunc
}

// NewLoader wires the HTTP fetcher and the OS keyring.
func NewLoader() *Loader {
	return &Loader{
		Fetcher:  engine.NewHTTPFetcher(),
		Password: KeyringPassword,
	}
}

// Load returns the photos for src. The builtin mode never fails.
func (l *Loader) Load(ctx context.Context, src config.GallerySource) ([]Item, error) {
	log := slog.With(
		config.LogKeyComponent, config.CompGallery,
		config.LogKeyMode, src.Mode,
	)

	var (
		data []byte
		err  error
	)

	switch src.Mode {
	case config.SourceModeBuiltin, "":
		return Defaults(), nil
	case config.SourceModeLocal:
		if src.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		data, err = os.ReadFile(src.LocalPath)
	case config.SourceModeWeb:
		if src.WebURL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if l.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		data, err = l.Fetcher.Fetch(ctx, src.WebURL, src.WebUser, l.password(log, src.WebUser))
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, src.Mode)
	}
	if err != nil {
		return nil, err
	}

	items, err := parseManifest(data)
	if err != nil {
		return nil, err
	}

	log.Info(config.MsgGalleryLoaded, config.LogKeyCount, len(items))
	return items, nil
}

// LoadOrDefault is Load with a fallback to the built-in photos, so a broken
// manifest never leaves the page without a gallery.
func (l *Loader) LoadOrDefault(ctx context.Context, src config.GallerySource) []Item {
	items, err := l.Load(ctx, src)
	if err != nil {
		slog.Warn(config.MsgGalleryFallback,
			config.LogKeyComponent, config.CompGallery,
			config.LogKeyError, err,
		)
		return Defaults()
	}
	return items
}

func (l *Loader) password(log *slog.Logger, user string) string {
	if user == "" || l.Password == nil {
		return ""
	}
	p, err := l.Password(user)
	if err != nil {
		log.Debug(config.MsgPassFail, config.LogKeyUser, user, config.LogKeyError, err)
		return ""
	}
	return p
}

func parseManifest(data []byte) ([]Item, error) {
	var photos []manifestPhoto
	if err := json.Unmarshal(data, &photos); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrManifestParse, err)
	}

	items := make([]Item, 0, len(photos))
	for i, p := range photos {
		url := strings.TrimSpace(p.URL)
		if url == "" {
			slog.Debug(config.MsgSkippedPhoto, config.LogKeyComponent, config.CompGallery, config.LogKeyCount, i)
			continue
		}
		items = append(items, Item{
			ID:      len(items) + 1,
			URL:     url,
			Caption: strings.TrimSpace(p.Caption),
			Likes:   max(p.Likes, 0),
		})
	}

	if len(items) == 0 {
		return nil, errors.New(config.ErrManifestEmpty)
	}
	return items, nil
}
