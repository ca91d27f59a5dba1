package engine

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-thoinoi/internal/config"
)

// Generator turns the static invitation into downloadable artifacts.
type Generator struct {
	Clock Clock // Interface for time mocking.

	// FormatSummary allows the UI to inject localized strings into the logic layer.
	FormatSummary func(babyName string) string

	// FormatDescription provides the invitation text embedded in the event.
	FormatDescription func(babyName string) string
}

// Calendar builds an iCalendar feed holding the single party event, with an
// optional DISPLAY alarm driven by inv.Reminder.
func (g *Generator) Calendar(inv config.Invitation) ([]byte, error) {
	start := time.Now()
	clock := g.Clock
	if clock == nil {
		clock = RealClock{}
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	summary := fmt.Sprintf(config.FallbackSummary, inv.BabyName)
	if g.FormatSummary != nil {
		summary = g.FormatSummary(inv.BabyName)
	}

	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, eventUID(inv), config.ICalDomain))
	event.Props.SetText(config.PropSummary, summary)
	event.Props.SetText(config.PropLocation, inv.Venue.Name+", "+inv.Venue.Address)
	if g.FormatDescription != nil {
		event.Props.SetText(config.PropDescription, g.FormatDescription(inv.BabyName))
	}
	if inv.BaseURL != "" {
		urlProp := ical.NewProp(config.PropURL)
		urlProp.Value = inv.BaseURL
		event.Props.Set(urlProp)
	}

	// GEO is a float pair; SetText would escape the separator.
	geo := ical.NewProp(config.PropGeo)
	geo.Value = fmt.Sprintf(config.FormatGeo, inv.Venue.Lat, inv.Venue.Lng)
	event.Props.Set(geo)

	stamp := ical.NewProp(config.PropDTStamp)
	stamp.SetDateTime(clock.Now().UTC())
	event.Props.Set(stamp)

	dtStart := ical.NewProp(config.PropDTStart)
	dtStart.SetDateTime(inv.EventTime.UTC())
	event.Props.Set(dtStart)

	if inv.Duration > 0 {
		dtEnd := ical.NewProp(config.PropDTEnd)
		dtEnd.SetDateTime(inv.EventEnd().UTC())
		event.Props.Set(dtEnd)
	}

	if inv.Reminder != "" {
		addAlarm(event, inv.Reminder, summary)
	}

	cal.Children = append(cal.Children, event.Component)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Debug(config.MsgAssetsReady,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyAsset, config.AssetEventICS,
		config.LogKeySizeBytes, buf.Len(),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}

// eventUID derives a stable identifier so calendar clients update the same
// event when the feed is downloaded again.
func eventUID(inv config.Invitation) string {
	input := inv.BabyName + "|" + inv.EventTime.UTC().Format(time.RFC3339) + "|" + config.UIDSalt
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%x", hash[:config.UIDHashLength])
}
