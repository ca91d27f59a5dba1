// Package share builds the outbound links and the QR code for the invitation.
package share

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/skip2/go-qrcode"
	"github.com/tartampluch/go-thoinoi/internal/config"
)

// Links are the share targets shown under the invitation.
type Links struct {
	Facebook       string `json:"facebook"`
	Zalo           string `json:"zalo"`
	WhatsApp       string `json:"whatsapp"`
	MapsSearch     string `json:"mapsSearch"`
	MapsDirections string `json:"mapsDirections"`
	HostMessage    string `json:"hostMessage,omitempty"`

	// CopyText is what lands on the clipboard. Clients without a clipboard
	// API show it in a selectable field instead.
	CopyText string `json:"copyText"`

	WindowSpec string `json:"windowSpec"`
}

// Params feeds Build.
type Params struct {
	PageURL     string
	ShareText   string
	Venue       config.Venue
	HostPhone   string // International format; empty disables HostMessage.
	HostMessage string
}

// Build assembles every link from p. It never fails: a missing host phone
// only drops the host message link.
func Build(p Params) Links {
	links := Links{
		Facebook: withQuery(config.ShareFacebookURL, url.Values{
			"u":     {p.PageURL},
			"quote": {p.ShareText},
		}),
		Zalo: withQuery(config.ShareZaloURL, url.Values{
			"url":  {p.PageURL},
			"text": {p.ShareText},
		}),
		WhatsApp: withQuery(config.ShareWhatsAppURL, url.Values{
			"text": {p.ShareText + " " + p.PageURL},
		}),
		MapsSearch: withQuery(config.MapsSearchURL, url.Values{
			"api":   {config.MapsAPIVersion},
			"query": {LatLng(p.Venue)},
		}),
		MapsDirections: withQuery(config.MapsDirectionsURL, url.Values{
			"api":         {config.MapsAPIVersion},
			"destination": {LatLng(p.Venue)},
		}),
		CopyText:   p.PageURL,
		WindowSpec: config.ShareWindowSpec,
	}

	if digits := phoneDigits(p.HostPhone); digits != "" {
		links.HostMessage = withQuery(config.ShareWhatsAppURL+digits, url.Values{
			"text": {p.HostMessage},
		})
	}
	return links
}

// LatLng formats the venue coordinates the way map services expect them.
func LatLng(v config.Venue) string {
	return fmt.Sprintf(config.FormatLatLng, v.Lat, v.Lng)
}

// QRCode renders pageURL as a square PNG of size pixels.
func QRCode(pageURL string, size int) ([]byte, error) {
	png, err := qrcode.Encode(pageURL, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrQREncode, err)
	}
	return png, nil
}

// QRCodeText renders pageURL with block characters for a terminal.
func QRCodeText(pageURL string) (string, error) {
	q, err := qrcode.New(pageURL, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrQREncode, err)
	}
	return q.ToSmallString(false), nil
}

// withQuery encodes spaces as %20, matching encodeURIComponent in the page.
func withQuery(base string, q url.Values) string {
	return base + "?" + strings.ReplaceAll(q.Encode(), "+", "%20")
}

func phoneDigits(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
}
