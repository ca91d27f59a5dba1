package ui_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-thoinoi/internal/config"
	"github.com/tartampluch/go-thoinoi/internal/engine"
	"github.com/tartampluch/go-thoinoi/internal/gallery"
	"github.com/tartampluch/go-thoinoi/internal/ui"
)

func newPresenter(t *testing.T) *ui.Presenter {
	t.Helper()
	loc, err := time.LoadLocation(config.DefaultTimeZone)
	require.NoError(t, err)

	inv := config.Invitation{
		BabyName:  "Mina",
		EventTime: time.Date(2025, 10, 11, 17, 30, 0, 0, loc),
		Venue: config.Venue{
			Name:    config.DefaultVenueName,
			Address: config.DefaultVenueAddress,
			Lat:     config.DefaultVenueLat,
			Lng:     config.DefaultVenueLng,
		},
		HostName:  "Gia đình bé Mina",
		HostPhone: "+84901234567",
		BaseURL:   "https://thoinoi.example.com/",
		MusicURL:  config.DefaultMusicURL,
		MusicLoop: true,
	}

	cat, err := ui.NewCatalog(config.DefaultLanguage)
	require.NoError(t, err)
	p, err := ui.NewPresenter(inv, cat)
	require.NoError(t, err)
	return p
}

func TestPresenter_Translator(t *testing.T) {
	p := newPresenter(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(config.HeaderAcceptLanguage, "en-US")
	assert.Equal(t, "en", p.Translator(req).Lang)

	req = httptest.NewRequest(http.MethodGet, "/?lang=vi", nil)
	req.Header.Set(config.HeaderAcceptLanguage, "en-US")
	assert.Equal(t, "vi", p.Translator(req).Lang, "query parameter wins")
}

func TestPresenter_Invitation(t *testing.T) {
	p := newPresenter(t)
	v := p.Invitation(p.Catalog.Translator("vi"))

	assert.Equal(t, "vi", v.Lang)
	assert.Equal(t, "Thứ Bảy, 11/10/2025", v.Date)
	assert.Equal(t, "17:30", v.Time)
	assert.Equal(t, "Bé Mina", v.Text[config.TKeyHeroSubtitle])
	assert.Equal(t, "Ngày", v.Text[config.TKeyUnitDays])
	assert.Equal(t, config.DefaultPlayerVolume, v.Music.Volume)
	assert.Equal(t, int64(2000), v.Music.RevealDelayMS)
	assert.True(t, v.Music.Loop)
	assert.Equal(t, config.GuestCountMax, v.RSVPLimits.GuestsMax)
	assert.Equal(t, "/"+config.AssetEventICS, v.Downloads["calendar"])
}

func TestPresenter_Countdown(t *testing.T) {
	p := newPresenter(t)
	tr := p.Catalog.Translator("vi")

	running := p.Countdown(tr, engine.TimeRemaining{Days: 1})
	assert.Empty(t, running.Message)

	done := p.Countdown(tr, engine.TimeRemaining{Reached: true})
	assert.Equal(t, "🎉 Hôm nay là ngày đặc biệt!", done.Message)
}

func TestPresenter_Photos(t *testing.T) {
	p := newPresenter(t)

	items := append(gallery.Defaults(), gallery.Item{ID: 5, URL: "https://example.com/x.jpg", Caption: "Tự đặt"})
	photos := p.Photos(p.Catalog.Translator("en"), items)

	assert.Equal(t, "Mina sleeping soundly", photos[0].Caption)
	assert.Equal(t, "Tự đặt", photos[4].Caption)
	assert.Empty(t, items[0].Caption, "source items are not modified")

	nav, err := gallery.NewNavigator(items)
	require.NoError(t, err)
	require.NoError(t, nav.Open(1))
	view := p.LightboxView(p.Catalog.Translator("vi"), nav.View())
	assert.Equal(t, "Mina với nụ cười đáng yêu", view.Item.Caption)
	assert.Equal(t, "2 / 5", view.Counter)
}

func TestPresenter_Share_PageURL(t *testing.T) {
	p := newPresenter(t)
	tr := p.Catalog.Translator("vi")

	assert.Equal(t, "https://thoinoi.example.com/?ref=zalo", p.Share(tr, "https://thoinoi.example.com/?ref=zalo").CopyText)
	assert.Equal(t, p.Inv.BaseURL, p.Share(tr, "javascript:alert(1)").CopyText)
	assert.Equal(t, p.Inv.BaseURL, p.Share(tr, "").CopyText)
	assert.Contains(t, p.Share(tr, "").HostMessage, "https://wa.me/84901234567?")
}

func TestPresenter_Confirmation(t *testing.T) {
	p := newPresenter(t)
	title, desc := p.Confirmation(p.Catalog.Translator("vi"), "An")

	assert.Equal(t, "✅ Xác nhận thành công!", title)
	assert.Equal(t, "Cảm ơn An đã xác nhận tham dự tiệc thôi nôi của bé Mina!", desc)
}

func TestPresenter_RenderPage(t *testing.T) {
	p := newPresenter(t)

	var buf bytes.Buffer
	require.NoError(t, p.RenderPage(&buf, p.Catalog.Translator("vi"), gallery.Defaults()))

	html := buf.String()
	assert.Contains(t, html, `<html lang="vi">`)
	assert.Contains(t, html, "Thôi Nôi")
	assert.Contains(t, html, "Mina đang ngủ ngon lành")
	assert.Contains(t, html, "/api/countdown/stream")
	assert.Contains(t, html, config.DefaultVenueName)
}
