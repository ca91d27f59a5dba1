package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

// Venue describes where the party takes place.
type Venue struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// GallerySource tells the gallery loader where to find the photo manifest.
type GallerySource struct {
	Mode      string // SourceModeBuiltin, SourceModeLocal or SourceModeWeb
	LocalPath string
	WebURL    string
	WebUser   string
}

// Invitation is the static page configuration. It is read once at start-up
// and never changes for the lifetime of the process.
type Invitation struct {
	BabyName    string
	EventTime   time.Time
	Duration    time.Duration
	Venue       Venue
	HostName    string
	HostPhone   string
	BindAddr    string
	Port        string
	BaseURL     string
	MusicURL    string
	MusicLoop   bool
	Language    string
	Reminder    string // ISO8601 duration for the calendar alarm, empty disables it
	SubmitDelay time.Duration
	Gallery     GallerySource
}

// LoadInvitation reads the invitation from environment variables, falling back
// to the built-in defaults for anything left unset.
func LoadInvitation() (Invitation, error) {
	inv := Invitation{
		BabyName:  getEnv(EnvBabyName, DefaultBabyName),
		HostPhone: getEnv(EnvHostPhone, ""),
		BindAddr:  getEnv(EnvBindAddr, DefaultBindAddr),
		Port:      getEnv(EnvPort, DefaultPort),
		MusicURL:  getEnv(EnvMusicURL, DefaultMusicURL),
		MusicLoop: getBool(EnvMusicLoop, DefaultMusicLoop),
		Language:  getEnv(EnvLanguage, DefaultLanguage),
		Reminder:  getEnv(EnvReminder, DefaultReminder),
		Duration:  time.Duration(getInt(EnvDuration, DefaultDurationMin)) * time.Minute,
		Venue: Venue{
			Name:    getEnv(EnvVenueName, DefaultVenueName),
			Address: getEnv(EnvVenueAddress, DefaultVenueAddress),
			Lat:     getFloat(EnvVenueLat, DefaultVenueLat),
			Lng:     getFloat(EnvVenueLng, DefaultVenueLng),
		},
		SubmitDelay: time.Duration(getInt(EnvSubmitDelay, DefaultSubmitDelayMS)) * time.Millisecond,
		Gallery: GallerySource{
			Mode:      getEnv(EnvGalleryMode, SourceModeBuiltin),
			LocalPath: getEnv(EnvGalleryPath, ""),
			WebURL:    getEnv(EnvGalleryURL, ""),
			WebUser:   getEnv(EnvGalleryUser, ""),
		},
	}
	inv.HostName = getEnv(EnvHostName, fmt.Sprintf(FallbackHostName, inv.BabyName))

	loc, err := time.LoadLocation(getEnv(EnvTimeZone, DefaultTimeZone))
	if err != nil {
		return Invitation{}, fmt.Errorf("%s: %w", ErrTimeZone, err)
	}

	inv.EventTime, err = time.ParseInLocation(EventTimeLayout, getEnv(EnvEventTime, DefaultEventTime), loc)
	if err != nil {
		return Invitation{}, fmt.Errorf("%s: %w", ErrEventTime, err)
	}

	if inv.Venue.Lat < -90 || inv.Venue.Lat > 90 || inv.Venue.Lng < -180 || inv.Venue.Lng > 180 {
		return Invitation{}, fmt.Errorf("%s: %f,%f", ErrCoordinates, inv.Venue.Lat, inv.Venue.Lng)
	}

	base, err := url.Parse(getEnv(EnvBaseURL, DefaultBaseURL))
	if err != nil || (base.Scheme != SchemeHTTP && base.Scheme != SchemeHTTPS) || base.Host == "" {
		return Invitation{}, fmt.Errorf("%s: %q", ErrBaseURL, getEnv(EnvBaseURL, DefaultBaseURL))
	}
	inv.BaseURL = base.String()

	if inv.Port == "" {
		return Invitation{}, errors.New(ErrPortRequired)
	}

	return inv, nil
}

// ListenAddr returns the host:port the HTTP server binds to.
func (inv Invitation) ListenAddr() string {
	return inv.BindAddr + AddrSeparator + inv.Port
}

// EventEnd returns the end of the party.
func (inv Invitation) EventEnd() time.Time {
	return inv.EventTime.Add(inv.Duration)
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
