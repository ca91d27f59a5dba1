package ui

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-thoinoi/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Catalog holds every embedded translation and picks one per request.
type Catalog struct {
	bundle    *i18n.Bundle
	languages []string // Fallback first.
	matcher   language.Matcher
}

// NewCatalog loads the embedded locale files. defaultLang is used when the
// visitor's Accept-Language matches nothing we ship.
func NewCatalog(defaultLang string) (*Catalog, error) {
	fallback, err := language.Parse(defaultLang)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrLocaleLoad, err)
	}

	bundle := i18n.NewBundle(fallback)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrLocalesAccess, err)
	}

	var detected []string
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
		)
		detected = append(detected, langCode)
	}

	if len(detected) == 0 {
		return nil, errors.New(config.ErrLocNotInit)
	}

	// The matcher falls back to its first tag.
	languages := []string{fallback.String()}
	for _, code := range detected {
		if code != fallback.String() {
			languages = append(languages, code)
		}
	}
	tags := make([]language.Tag, len(languages))
	for i, code := range languages {
		tags[i] = language.Make(code)
	}

	return &Catalog{
		bundle:    bundle,
		languages: languages,
		matcher:   language.NewMatcher(tags),
	}, nil
}

// Languages lists the shipped languages, fallback first.
func (c *Catalog) Languages() []string {
	return append([]string(nil), c.languages...)
}

// Negotiate picks the best shipped language for an Accept-Language header.
func (c *Catalog) Negotiate(acceptLanguage string) string {
	if acceptLanguage == "" {
		return c.languages[0]
	}
	_, index := language.MatchStrings(c.matcher, acceptLanguage)
	return c.languages[index]
}

// Translator returns a translator bound to lang.
func (c *Catalog) Translator(lang string) *Translator {
	return &Translator{
		Lang:      lang,
		localizer: i18n.NewLocalizer(c.bundle, lang, c.languages[0]),
	}
}

// Translator resolves message keys for one language.
type Translator struct {
	Lang      string
	localizer *i18n.Localizer
}

// Msg translates key. A missing key is returned unchanged.
func (t *Translator) Msg(key string) string {
	return t.MsgData(key, nil)
}

// MsgData translates key with template data such as {"Name": "Mina"}.
func (t *Translator) MsgData(key string, data map[string]any) string {
	if t == nil || t.localizer == nil {
		return key
	}
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return msg
}

// Named is MsgData for the common {{.Name}} template.
func (t *Translator) Named(key, name string) string {
	return t.MsgData(key, map[string]any{"Name": name})
}

// LongDate renders e.g. "Thứ Bảy, 11/10/2025".
func (t *Translator) LongDate(tm time.Time) string {
	return t.Msg(config.WeekdayKeys[tm.Weekday()]) + ", " + tm.Format(t.Msg(config.TKeyFormatDate))
}

// Clock renders the time of day, e.g. "17:30".
func (t *Translator) Clock(tm time.Time) string {
	return tm.Format(t.Msg(config.TKeyFormatTime))
}
