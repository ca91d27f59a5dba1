package share_test

import (
	"bytes"
	"image/png"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-thoinoi/internal/config"
	"github.com/tartampluch/go-thoinoi/internal/share"
)

func params() share.Params {
	return share.Params{
		PageURL:   "https://thoinoi.example.com/?ref=card",
		ShareText: "Mời bạn đến dự tiệc thôi nôi của bé!",
		Venue: config.Venue{
			Name: config.DefaultVenueName,
			Lat:  config.DefaultVenueLat,
			Lng:  config.DefaultVenueLng,
		},
		HostPhone:   "+84 901 234 567",
		HostMessage: "Chào gia đình bé Mina",
	}
}

func query(t *testing.T, raw string) (*url.URL, url.Values) {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u, u.Query()
}

func TestBuild(t *testing.T) {
	p := params()
	links := share.Build(p)

	tests := []struct {
		name   string
		link   string
		prefix string
		want   map[string]string
	}{
		{"Facebook", links.Facebook, config.ShareFacebookURL, map[string]string{"u": p.PageURL, "quote": p.ShareText}},
		{"Zalo", links.Zalo, config.ShareZaloURL, map[string]string{"url": p.PageURL, "text": p.ShareText}},
		{"WhatsApp", links.WhatsApp, config.ShareWhatsAppURL, map[string]string{"text": p.ShareText + " " + p.PageURL}},
		{"MapsSearch", links.MapsSearch, config.MapsSearchURL, map[string]string{"api": "1", "query": "11.940400,108.458300"}},
		{"MapsDirections", links.MapsDirections, config.MapsDirectionsURL, map[string]string{"api": "1", "destination": "11.940400,108.458300"}},
		{"HostMessage", links.HostMessage, "https://wa.me/84901234567", map[string]string{"text": p.HostMessage}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, tt.link, tt.prefix+"?")
			_, q := query(t, tt.link)
			for k, v := range tt.want {
				assert.Equal(t, v, q.Get(k), "query parameter %s", k)
			}
		})
	}

	assert.Equal(t, p.PageURL, links.CopyText)
	assert.Equal(t, config.ShareWindowSpec, links.WindowSpec)
}

func TestBuild_SpacesPercentEncoded(t *testing.T) {
	links := share.Build(params())

	for name, link := range map[string]string{
		"Facebook":    links.Facebook,
		"Zalo":        links.Zalo,
		"WhatsApp":    links.WhatsApp,
		"HostMessage": links.HostMessage,
	} {
		assert.NotContains(t, link, "+", name)
		assert.Contains(t, link, "%20", name)
	}
	assert.Contains(t, links.HostMessage, "text=Ch%C3%A0o%20gia%20%C4%91%C3%ACnh%20b%C3%A9%20Mina")
}

func TestBuild_NoHostPhone(t *testing.T) {
	p := params()
	p.HostPhone = ""

	links := share.Build(p)
	assert.Empty(t, links.HostMessage)
	assert.NotEmpty(t, links.WhatsApp)
}

func TestQRCode(t *testing.T) {
	data, err := share.QRCode("https://thoinoi.example.com/", config.QRCodeSize)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, config.QRCodeSize, img.Bounds().Dx())
	assert.Equal(t, config.QRCodeSize, img.Bounds().Dy())
}

func TestQRCode_TooLong(t *testing.T) {
	_, err := share.QRCode(string(bytes.Repeat([]byte("x"), 5000)), config.QRCodeSize)
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrQREncode)
}

func TestQRCodeText(t *testing.T) {
	text, err := share.QRCodeText("https://thoinoi.example.com/")
	require.NoError(t, err)
	assert.NotEmpty(t, text)
}
