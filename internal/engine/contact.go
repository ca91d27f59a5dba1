package engine

import (
	"bytes"
	"fmt"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-thoinoi/internal/config"
)

// HostCard renders the host family as a vCard 4.0 so guests can save the
// contact and call if they get lost on the way.
func (g *Generator) HostCard(inv config.Invitation) ([]byte, error) {
	card := make(vcard.Card)
	card.SetValue(vcard.FieldFormattedName, inv.HostName)
	card.SetKind(vcard.KindGroup)

	if inv.HostPhone != "" {
		card.Add(vcard.FieldTelephone, &vcard.Field{
			Value:  inv.HostPhone,
			Params: vcard.Params{vcard.ParamType: {vcard.TypeCell}},
		})
	}

	card.AddAddress(&vcard.Address{
		ExtendedAddress: inv.Venue.Name,
		StreetAddress:   inv.Venue.Address,
	})
	card.SetValue(vcard.FieldGeolocation, fmt.Sprintf("geo:"+config.FormatLatLng, inv.Venue.Lat, inv.Venue.Lng))

	if inv.BaseURL != "" {
		card.SetValue(vcard.FieldURL, inv.BaseURL)
	}
	if g.FormatDescription != nil {
		card.SetValue(vcard.FieldNote, g.FormatDescription(inv.BabyName))
	}

	vcard.ToV4(card)

	var buf bytes.Buffer
	if err := vcard.NewEncoder(&buf).Encode(card); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrVCardEncode, err)
	}
	return buf.Bytes(), nil
}
