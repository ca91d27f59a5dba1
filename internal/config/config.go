package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-ThoiNoi/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName        = "Go Thoi Noi"
	AppID          = "com.github.tartampluch.go-thoinoi"
	KeyringService = "com.github.tartampluch.go-thoinoi"
	LogFileName    = "app.log"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion       = "version"
	FlagDebug         = "debug"
	FlagStorePassword = "store-password"
	FlagDescVersion   = "Show application version and exit"
	FlagDescDebug     = "Enable debug logging to stdout"
	FlagDescStorePass = "Read the gallery source password from stdin, store it in the OS keyring and exit"
	MsgVersionOutput  = "%s version %s (%s/%s)\n"
	MsgPasswordPrompt = "Password for %s: "
)

// -----------------------------------------------------------------------------
// Environment Variables
// -----------------------------------------------------------------------------

const (
	EnvBabyName     = "THOINOI_BABY_NAME"
	EnvEventTime    = "THOINOI_EVENT_TIME"
	EnvTimeZone     = "THOINOI_TZ"
	EnvDuration     = "THOINOI_EVENT_DURATION_MIN"
	EnvVenueName    = "THOINOI_VENUE_NAME"
	EnvVenueAddress = "THOINOI_VENUE_ADDRESS"
	EnvVenueLat     = "THOINOI_VENUE_LAT"
	EnvVenueLng     = "THOINOI_VENUE_LNG"
	EnvHostName     = "THOINOI_HOST_NAME"
	EnvHostPhone    = "THOINOI_HOST_PHONE"
	EnvBindAddr     = "THOINOI_BIND_ADDR"
	EnvPort         = "THOINOI_PORT"
	EnvBaseURL      = "THOINOI_BASE_URL"
	EnvMusicURL     = "THOINOI_MUSIC_URL"
	EnvMusicLoop    = "THOINOI_MUSIC_LOOP"
	EnvLanguage     = "THOINOI_LANG"
	EnvReminder     = "THOINOI_REMINDER"
	EnvSubmitDelay  = "THOINOI_SUBMIT_DELAY_MS"
	EnvGalleryMode  = "THOINOI_GALLERY_MODE"
	EnvGalleryPath  = "THOINOI_GALLERY_PATH"
	EnvGalleryURL   = "THOINOI_GALLERY_URL"
	EnvGalleryUser  = "THOINOI_GALLERY_USER"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultBabyName      = "Mina"
	DefaultEventTime     = "2025-10-11T17:30:00"
	DefaultTimeZone      = "Asia/Ho_Chi_Minh"
	DefaultDurationMin   = 180
	DefaultVenueName     = "Túi Ba Gang - Sảnh Lamuse"
	DefaultVenueAddress  = "Số 19 Nguyễn Du, Phường Lâm Viên, Đà Lạt"
	DefaultVenueLat      = 11.9404
	DefaultVenueLng      = 108.4583
	DefaultBindAddr      = "0.0.0.0"
	DefaultPort          = "8080"
	DefaultBaseURL       = "http://localhost:8080/"
	DefaultMusicURL      = "https://files.freemusicarchive.org/storage-freemusicarchive-org/music/Creative_Commons/Chad_Crouch/Arps/Chad_Crouch_-_Shipping_Lanes.mp3"
	DefaultMusicLoop     = true
	DefaultLanguage      = "vi"
	DefaultReminder      = "-P1D"
	DefaultSubmitDelayMS = 2000
	DefaultPlayerVolume  = 0.3
	PlayerRevealDelay    = 2 * time.Second

	// EventTimeLayout is the wall-clock layout for THOINOI_EVENT_TIME.
	// The zone comes from THOINOI_TZ.
	EventTimeLayout = "2006-01-02T15:04:05"

	SourceModeBuiltin = "builtin"
	SourceModeLocal   = "local"
	SourceModeWeb     = "web"
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
// The first entry is the fallback when negotiation fails.
var SupportedLanguages = []string{"vi", "en"}

// -----------------------------------------------------------------------------
// Countdown
// -----------------------------------------------------------------------------

const (
	CountdownInterval = 1 * time.Second
	SecondsPerDay     = 86400
	SecondsPerHour    = 3600
	SecondsPerMinute  = 60
)

// -----------------------------------------------------------------------------
// RSVP Constraints
// -----------------------------------------------------------------------------

const (
	NameMaxLen        = 100
	PhoneMinLen       = 10
	PhoneMaxLen       = 15
	GuestCountMin     = 1
	GuestCountMax     = 10
	MessageMaxLen     = 500
	DefaultGuestCount = 1

	FieldName       = "name"
	FieldPhone      = "phone"
	FieldGuestCount = "guestCount"
	FieldMessage    = "message"
)

// -----------------------------------------------------------------------------
// Sessions
// -----------------------------------------------------------------------------

const (
	SessionCookieName    = "thoinoi_session"
	SessionIdleTTL       = 30 * time.Minute
	SessionSweepInterval = 1 * time.Minute
)

// -----------------------------------------------------------------------------
// Standards: iCalendar
// -----------------------------------------------------------------------------

const (
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Thoi Noi//Invitation//EN"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "thoinoi"
	FormatUID     = "%s@%s"
	FormatGeo     = "%.6f;%.6f"
	UIDHashLength = 16
	UIDSalt       = "go-thoinoi-v1-"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTEnd       = "DTEND"
	PropDTStamp     = "DTSTAMP"
	PropLocation    = "LOCATION"
	PropGeo         = "GEO"
	PropURL         = "URL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"
)

// -----------------------------------------------------------------------------
// Share Targets & Assets
// -----------------------------------------------------------------------------

const (
	ShareFacebookURL  = "https://www.facebook.com/sharer/sharer.php"
	ShareZaloURL      = "https://zalo.me/share"
	ShareWhatsAppURL  = "https://wa.me/"
	MapsSearchURL     = "https://www.google.com/maps/search/"
	MapsDirectionsURL = "https://www.google.com/maps/dir/"
	MapsAPIVersion    = "1"
	FormatLatLng      = "%.6f,%.6f"
	ShareWindowSpec   = "width=600,height=400"

	QRCodeSize = 256

	AssetEventICS = "event.ics"
	AssetHostVCF  = "host.vcf"
	AssetQRCode   = "qr.png"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout        = 30 * time.Second
	ShutdownTimeout    = 5 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerIdleTimeout  = 60 * time.Second
	RetryAfterSeconds  = "10"
	MaxRequestBodySize = 64 * 1024
	MaxManifestSize    = 1 * 1024 * 1024
	SchemeHTTP         = "http"
	SchemeHTTPS        = "https"
	AddrSeparator      = ":"
	SSEEventCountdown  = "countdown"
	FormatSSEFrame     = "event: %s\ndata: %s\n\n"
	PathValueIndex     = "index"
	QueryParamURL      = "url"
	QueryParamLang     = "lang"
	TemplateIndex      = "index.html.tmpl"
)

// -----------------------------------------------------------------------------
// Routes (Go 1.22 ServeMux patterns)
// -----------------------------------------------------------------------------

const (
	RouteIndex           = "GET /{$}"
	RouteEventICS        = "GET /" + AssetEventICS
	RouteHostVCF         = "GET /" + AssetHostVCF
	RouteQRCode          = "GET /" + AssetQRCode
	RouteInvitation      = "GET /api/invitation"
	RouteCountdown       = "GET /api/countdown"
	RouteCountdownStream = "GET /api/countdown/stream"
	RouteRSVP            = "POST /api/rsvp"
	RouteRSVPDraft       = "PATCH /api/rsvp/draft"
	RouteGallery         = "GET /api/gallery"
	RouteGalleryOpen     = "POST /api/gallery/open/{index}"
	RouteGalleryNext     = "POST /api/gallery/next"
	RouteGalleryPrev     = "POST /api/gallery/prev"
	RouteGalleryClose    = "POST /api/gallery/close"
	RoutePlayer          = "GET /api/player"
	RoutePlayerToggle    = "POST /api/player/toggle"
	RoutePlayerMute      = "POST /api/player/mute"
	RoutePlayerEvents    = "POST /api/player/events"
	RouteShare           = "GET /api/share"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"
	HeaderDisposition     = "Content-Disposition"
	HeaderAcceptLanguage  = "Accept-Language"
	HeaderContentLanguage = "Content-Language"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeVCard           = "text/vcard; charset=utf-8"
	MimePNG             = "image/png"
	MimeJSON            = "application/json; charset=utf-8"
	MimeHTML            = "text/html; charset=utf-8"
	MimeEventStream     = "text/event-stream"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"
	CacheControlNoStore = "no-store"

	DispositionICS = `attachment; filename="thoi-noi.ics"`
	DispositionVCF = `attachment; filename="gia-dinh.vcf"`

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrLocalPathEmpty   = "configuration error: local path is empty"
	ErrWebURLEmpty      = "configuration error: web URL is empty"
	ErrFetcherMissing   = "internal error: network fetcher is not initialized"
	ErrModeUnsupport    = "configuration error: unsupported source mode"
	ErrEventTime        = "configuration error: invalid event time"
	ErrTimeZone         = "configuration error: unknown time zone"
	ErrCoordinates      = "configuration error: venue coordinates out of range"
	ErrBaseURL          = "configuration error: invalid base URL"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrManifestParse    = "failed to parse gallery manifest"
	ErrManifestEmpty    = "gallery manifest contains no photos"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrVCardEncode      = "failed to encode vCard data"
	ErrQREncode         = "failed to encode QR code"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrLocNotInit       = "localizer not initialized"
	ErrIndexRange       = "photo index out of range"
	ErrEmptyGallery     = "gallery requires at least one photo"
	ErrSubmitInProgress = "a submission is already in progress"
	ErrFormDiscarded    = "form has been discarded"
	ErrUnknownField     = "unknown RSVP field"
	ErrFieldValue       = "RSVP field must be a string, a number or null"
	ErrUnknownEvent     = "unknown player event"
	ErrAudioResource    = "audio resource error"
	ErrBadJSON          = "invalid JSON body"
	ErrKeyringStore     = "failed to store password in keyring"
	ErrGalleryUserEmpty = "gallery user is not configured"
	ErrAssetsBuild      = "failed to build downloadable assets"
	ErrTemplateRender   = "failed to render page template"
	ErrStreamingUnsup   = "response writer does not support streaming"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Invitation initializing, please try again shortly."
	HTTPMsgInternalErr  = "Internal Server Error"
)

// -----------------------------------------------------------------------------
// Fallbacks & Defaults
// -----------------------------------------------------------------------------

const (
	FallbackSummary  = "Thoi noi: %s"
	FallbackHostName = "Gia đình bé %s"

	MsgAppStarting      = "Starting application"
	MsgAppStop          = "Application stopped gracefully"
	MsgServerListen     = "HTTP server listening"
	MsgServerStop       = "Shutting down HTTP server..."
	MsgCacheUpdated     = "Asset cache updated"
	MsgAssetsReady      = "Downloadable assets generated"
	MsgLocaleSkip       = "Skipping non-locale file"
	MsgLocaleBadName    = "Skipping malformed locale filename"
	MsgLocaleLoaded     = "Locale loaded successfully"
	MsgTransMissing     = "Missing translation key"
	MsgPassFail         = "Password retrieval failed (might be empty)"
	MsgPassStored       = "Password stored in keyring"
	MsgLogWarning       = "Warning: %s at %s: %v\n"
	MsgCountdownStart   = "Countdown started"
	MsgCountdownStop    = "Countdown released"
	MsgCountdownReached = "Countdown target reached"
	MsgRSVPInvalid      = "RSVP rejected by validation"
	MsgRSVPAccepted     = "RSVP submission confirmed"
	MsgRSVPDropped      = "RSVP completion ignored, form no longer active"
	MsgPlayFailed       = "Audio play failed"
	MsgAudioError       = "Audio failed to load"
	MsgAudioEnded       = "Audio playback ended"
	MsgSessionCreated   = "Session created"
	MsgSessionsSwept    = "Idle sessions evicted"
	MsgJanitorStart     = "Session janitor started"
	MsgJanitorStop      = "Session janitor stopping due to context cancellation"
	MsgGalleryLoaded    = "Gallery manifest loaded"
	MsgGalleryFallback  = "Gallery manifest unavailable, using built-in photos"
	MsgSkippedPhoto     = "Skipping photo without URL"
	MsgHTTPRequest      = "HTTP request"
	MsgPanicRecovered   = "Panic recovered"
	MsgDownloadStart    = "Initiating manifest download"
	MsgDownloading      = "Manifest downloading"
	MsgBadStatus        = "Server returned error status"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyHeroTitle       = "hero_title"
	TKeyHeroSubtitle    = "hero_subtitle" // Requires Name
	TKeyHeroDateLabel   = "hero_date_label"
	TKeyHeroCTA         = "hero_cta"
	TKeyInviteHeading   = "invite_heading"
	TKeyInviteBody      = "invite_body" // Requires Name
	TKeyCountdownTitle  = "countdown_title"
	TKeyCountdownDone   = "countdown_reached"
	TKeyUnitDays        = "unit_days"
	TKeyUnitHours       = "unit_hours"
	TKeyUnitMinutes     = "unit_minutes"
	TKeyUnitSeconds     = "unit_seconds"
	TKeyDetailsTitle    = "details_title"
	TKeyLblBaby         = "lbl_baby"
	TKeyLblDate         = "lbl_date"
	TKeyLblTime         = "lbl_time"
	TKeyLblVenue        = "lbl_venue"
	TKeyFormatDate      = "format_date_short" // Go layout, e.g. "02/01/2006"
	TKeyFormatTime      = "format_time"       // Go layout, e.g. "15:04"
	TKeyGalleryTitle    = "gallery_title" // Requires Name
	TKeyGallerySubtitle = "gallery_subtitle"
	TKeyCaptionSleeping = "caption_sleeping" // Requires Name
	TKeyCaptionSmile    = "caption_smile"    // Requires Name
	TKeyCaptionPlaying  = "caption_playing"  // Requires Name
	TKeyCaptionMoment   = "caption_moment"   // Requires Name
	TKeyRSVPTitle       = "rsvp_title"
	TKeyRSVPSubtitle    = "rsvp_subtitle" // Requires Name
	TKeyRSVPNote        = "rsvp_note"
	TKeyErrNameRequired = "err_name_required"
	TKeyErrNameTooLong  = "err_name_too_long"
	TKeyErrPhoneInvalid = "err_phone_invalid"
	TKeyErrPhoneTooLong = "err_phone_too_long"
	TKeyErrGuestsMin    = "err_guests_min"
	TKeyErrGuestsMax    = "err_guests_max"
	TKeyErrMessageLong  = "err_message_too_long"
	TKeyToastBadTitle   = "toast_invalid_title"
	TKeyToastBadDesc    = "toast_invalid_desc"
	TKeyToastOKTitle    = "toast_success_title"
	TKeyToastOKDesc     = "toast_success_desc" // Requires Name, Baby
	TKeyToastFailTitle  = "toast_failure_title"
	TKeyToastFailDesc   = "toast_failure_desc"
	TKeyShareTitle      = "share_title"
	TKeyShareText       = "share_text"
	TKeyCopyTitle       = "copy_title"
	TKeyCopyDesc        = "copy_desc"
	TKeyHostMessage     = "host_message" // Requires Name, Venue
	TKeyPlayerLabel     = "player_label"
	TKeyPlayerPlaying   = "player_now_playing"
	TKeyPlayerHint      = "player_hint"
	TKeyEvtSummary      = "event_summary" // Requires Name
	TKeyFooterThanks    = "footer_thanks" // Requires Name
	TKeyFooterMade      = "footer_made"
	TKeyHostName        = "host_name" // Requires Name
)

// WeekdayKeys maps time.Weekday (Sunday = 0) to its translation key.
var WeekdayKeys = [7]string{
	"weekday_sunday",
	"weekday_monday",
	"weekday_tuesday",
	"weekday_wednesday",
	"weekday_thursday",
	"weekday_friday",
	"weekday_saturday",
}

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyMode      = "mode"
	LogKeyUser      = "user"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyAsset     = "asset"
	LogKeyCount     = "count"
	LogKeyFields    = "fields"
	LogKeyGuests    = "guest_count"
	LogKeyConfirm   = "confirmation_id"
	LogKeySession   = "session"
	LogKeyTarget    = "target"
	LogKeyMethod    = "method"
	LogKeyPath      = "path"
	LogKeyDuration  = "duration_ms"
	LogKeyTrace     = "trace"
	LogKeyLoop      = "loop"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompMain      = "main"
	CompServer    = "server"
	CompHTTP      = "http"
	CompEngine    = "engine"
	CompFetcher   = "fetcher"
	CompCountdown = "countdown"
	CompRSVP      = "rsvp"
	CompGallery   = "gallery"
	CompPlayer    = "player"
	CompSession   = "session"
	CompI18n      = "i18n"
)
