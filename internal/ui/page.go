package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tartampluch/go-thoinoi/internal/config"
	"github.com/tartampluch/go-thoinoi/internal/engine"
	"github.com/tartampluch/go-thoinoi/internal/gallery"
	"github.com/tartampluch/go-thoinoi/internal/share"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// InvitationView is the localized, static part of the page.
type InvitationView struct {
	Lang       string            `json:"lang"`
	Languages  []string          `json:"languages"`
	BabyName   string            `json:"babyName"`
	EventTime  time.Time         `json:"eventTime"`
	Date       string            `json:"date"`
	Time       string            `json:"time"`
	Venue      config.Venue      `json:"venue"`
	HostName   string            `json:"hostName"`
	HostPhone  string            `json:"hostPhone,omitempty"`
	Music      MusicView         `json:"music"`
	Text       map[string]string `json:"text"`
	Downloads  map[string]string `json:"downloads"`
	RSVPLimits RSVPLimits        `json:"rsvpLimits"`
}

// MusicView configures the audio element.
type MusicView struct {
	URL           string  `json:"url"`
	Loop          bool    `json:"loop"`
	Volume        float64 `json:"volume"`
	RevealDelayMS int64   `json:"revealDelayMs"`
}

// RSVPLimits mirrors the validation rules so the form can hint at them.
type RSVPLimits struct {
	NameMax    int `json:"nameMax"`
	PhoneMin   int `json:"phoneMin"`
	PhoneMax   int `json:"phoneMax"`
	GuestsMin  int `json:"guestsMin"`
	GuestsMax  int `json:"guestsMax"`
	MessageMax int `json:"messageMax"`
}

// CountdownView is one countdown frame with its labels.
type CountdownView struct {
	engine.TimeRemaining
	Message string `json:"message,omitempty"`
}

// staticKeys are the texts that need no template data.
var staticKeys = []string{
	config.TKeyHeroTitle, config.TKeyHeroDateLabel, config.TKeyHeroCTA,
	config.TKeyInviteHeading, config.TKeyCountdownTitle,
	config.TKeyUnitDays, config.TKeyUnitHours, config.TKeyUnitMinutes, config.TKeyUnitSeconds,
	config.TKeyDetailsTitle, config.TKeyLblBaby, config.TKeyLblDate, config.TKeyLblTime, config.TKeyLblVenue,
	config.TKeyGallerySubtitle, config.TKeyRSVPTitle, config.TKeyRSVPNote,
	config.TKeyShareTitle, config.TKeyShareText, config.TKeyCopyTitle, config.TKeyCopyDesc,
	config.TKeyPlayerLabel, config.TKeyPlayerPlaying, config.TKeyPlayerHint, config.TKeyFooterMade,
	config.TKeyToastBadTitle, config.TKeyToastBadDesc, config.TKeyToastFailTitle, config.TKeyToastFailDesc,
	config.TKeyToastOKTitle,
}

// namedKeys are the texts templated on the baby's name.
var namedKeys = []string{
	config.TKeyHeroSubtitle, config.TKeyInviteBody, config.TKeyGalleryTitle,
	config.TKeyRSVPSubtitle, config.TKeyFooterThanks,
}

// Presenter turns domain state into localized views and the HTML shell.
type Presenter struct {
	Inv     config.Invitation
	Catalog *Catalog
	tmpl    *template.Template
}

// NewPresenter parses the embedded page template.
func NewPresenter(inv config.Invitation, catalog *Catalog) (*Presenter, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrTemplateRender, err)
	}
	return &Presenter{Inv: inv, Catalog: catalog, tmpl: tmpl}, nil
}

// Translator picks the language for r: an explicit ?lang= wins over
// Accept-Language.
func (p *Presenter) Translator(r *http.Request) *Translator {
	if lang := r.URL.Query().Get(config.QueryParamLang); lang != "" {
		return p.Catalog.Translator(p.Catalog.Negotiate(lang))
	}
	return p.Catalog.Translator(p.Catalog.Negotiate(r.Header.Get(config.HeaderAcceptLanguage)))
}

// Invitation builds the localized static view.
func (p *Presenter) Invitation(tr *Translator) InvitationView {
	text := make(map[string]string, len(staticKeys)+len(namedKeys))
	for _, k := range staticKeys {
		text[k] = tr.Msg(k)
	}
	for _, k := range namedKeys {
		text[k] = tr.Named(k, p.Inv.BabyName)
	}

	return InvitationView{
		Lang:      tr.Lang,
		Languages: p.Catalog.Languages(),
		BabyName:  p.Inv.BabyName,
		EventTime: p.Inv.EventTime,
		Date:      tr.LongDate(p.Inv.EventTime),
		Time:      tr.Clock(p.Inv.EventTime),
		Venue:     p.Inv.Venue,
		HostName:  p.Inv.HostName,
		HostPhone: p.Inv.HostPhone,
		Music: MusicView{
			URL:           p.Inv.MusicURL,
			Loop:          p.Inv.MusicLoop,
			Volume:        config.DefaultPlayerVolume,
			RevealDelayMS: config.PlayerRevealDelay.Milliseconds(),
		},
		Text: text,
		Downloads: map[string]string{
			"calendar": "/" + config.AssetEventICS,
			"contact":  "/" + config.AssetHostVCF,
			"qr":       "/" + config.AssetQRCode,
		},
		RSVPLimits: RSVPLimits{
			NameMax:    config.NameMaxLen,
			PhoneMin:   config.PhoneMinLen,
			PhoneMax:   config.PhoneMaxLen,
			GuestsMin:  config.GuestCountMin,
			GuestsMax:  config.GuestCountMax,
			MessageMax: config.MessageMaxLen,
		},
	}
}

// Countdown labels a countdown frame.
func (p *Presenter) Countdown(tr *Translator, left engine.TimeRemaining) CountdownView {
	v := CountdownView{TimeRemaining: left}
	if left.Reached {
		v.Message = tr.Msg(config.TKeyCountdownDone)
	}
	return v
}

// Photos resolves translated captions for the current language.
func (p *Presenter) Photos(tr *Translator, items []gallery.Item) []gallery.Item {
	out := make([]gallery.Item, len(items))
	for i, it := range items {
		if it.CaptionKey != "" {
			it.Caption = tr.Named(it.CaptionKey, p.Inv.BabyName)
		}
		out[i] = it
	}
	return out
}

// LightboxView localizes the navigator's view.
func (p *Presenter) LightboxView(tr *Translator, v gallery.View) gallery.View {
	if v.Item.CaptionKey != "" {
		v.Item.Caption = tr.Named(v.Item.CaptionKey, p.Inv.BabyName)
	}
	return v
}

// Share builds the share links. pageURL is the URL the visitor is looking at;
// anything that is not an absolute http(s) URL is replaced by the base URL.
func (p *Presenter) Share(tr *Translator, pageURL string) share.Links {
	return share.Build(share.Params{
		PageURL:   p.pageURL(pageURL),
		ShareText: tr.Msg(config.TKeyShareText),
		Venue:     p.Inv.Venue,
		HostPhone: p.Inv.HostPhone,
		HostMessage: tr.MsgData(config.TKeyHostMessage, map[string]any{
			"Name":  p.Inv.BabyName,
			"Venue": p.Inv.Venue.Name,
		}),
	})
}

func (p *Presenter) pageURL(candidate string) string {
	u, err := url.Parse(candidate)
	if err != nil || (u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS) || u.Host == "" {
		return p.Inv.BaseURL
	}
	return u.String()
}

// Confirmation renders the toast shown after a successful RSVP.
func (p *Presenter) Confirmation(tr *Translator, guestName string) (title, desc string) {
	return tr.Msg(config.TKeyToastOKTitle), tr.MsgData(config.TKeyToastOKDesc, map[string]any{
		"Name": guestName,
		"Baby": p.Inv.BabyName,
	})
}

type pageData struct {
	InvitationView
	Photos []gallery.Item
	Share  share.Links
}

// RenderPage writes the HTML shell.
func (p *Presenter) RenderPage(w io.Writer, tr *Translator, items []gallery.Item) error {
	data := pageData{
		InvitationView: p.Invitation(tr),
		Photos:         p.Photos(tr, items),
		Share:          p.Share(tr, p.Inv.BaseURL),
	}
	if err := p.tmpl.ExecuteTemplate(w, config.TemplateIndex, data); err != nil {
		return fmt.Errorf("%s: %w", config.ErrTemplateRender, err)
	}
	return nil
}
