package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/tartampluch/go-thoinoi/internal/config"
	"github.com/tartampluch/go-thoinoi/internal/engine"
	"github.com/tartampluch/go-thoinoi/internal/gallery"
	"github.com/tartampluch/go-thoinoi/internal/share"
	"github.com/tartampluch/go-thoinoi/internal/ui"
)

// Server is the invitation web service.
type Server struct {
	Inv       config.Invitation
	Presenter *ui.Presenter
	Sessions  *ui.SessionStore
	Assets    *AssetCache
	Clock     engine.Clock
}

// New wires a server. Downloads stay unavailable until BuildAssets succeeds.
func New(inv config.Invitation, presenter *ui.Presenter, sessions *ui.SessionStore) *Server {
	return &Server{
		Inv:       inv,
		Presenter: presenter,
		Sessions:  sessions,
		Assets:    NewAssetCache(),
		Clock:     engine.RealClock{},
	}
}

// Handler returns the routed handler wrapped in recovery and request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc(config.RouteIndex, s.handleIndex)
	mux.HandleFunc(config.RouteEventICS, s.Assets.Handler(config.AssetEventICS))
	mux.HandleFunc(config.RouteHostVCF, s.Assets.Handler(config.AssetHostVCF))
	mux.HandleFunc(config.RouteQRCode, s.Assets.Handler(config.AssetQRCode))

	mux.HandleFunc(config.RouteInvitation, s.handleInvitation)
	mux.HandleFunc(config.RouteCountdown, s.handleCountdown)
	mux.HandleFunc(config.RouteCountdownStream, s.handleCountdownStream)

	mux.HandleFunc(config.RouteRSVP, s.handleRSVPSubmit)
	mux.HandleFunc(config.RouteRSVPDraft, s.handleRSVPDraft)

	mux.HandleFunc(config.RouteGallery, s.handleGallery)
	mux.HandleFunc(config.RouteGalleryOpen, s.handleGalleryOpen)
	mux.HandleFunc(config.RouteGalleryNext, s.galleryAction((*gallery.Navigator).Next))
	mux.HandleFunc(config.RouteGalleryPrev, s.galleryAction((*gallery.Navigator).Prev))
	mux.HandleFunc(config.RouteGalleryClose, s.galleryAction((*gallery.Navigator).Close))

	mux.HandleFunc(config.RoutePlayer, s.handlePlayer)
	mux.HandleFunc(config.RoutePlayerToggle, s.handlePlayerToggle)
	mux.HandleFunc(config.RoutePlayerMute, s.handlePlayerMute)
	mux.HandleFunc(config.RoutePlayerEvents, s.handlePlayerEvents)

	mux.HandleFunc(config.RouteShare, s.handleShare)

	return recoverPanics(logRequests(mux))
}

// BuildAssets renders the calendar, contact card and QR code in the
// invitation's default language and publishes them.
func (s *Server) BuildAssets(gen *engine.Generator) error {
	tr := s.Presenter.Catalog.Translator(s.Presenter.Catalog.Negotiate(s.Inv.Language))
	if gen.FormatSummary == nil {
		gen.FormatSummary = func(name string) string { return tr.Named(config.TKeyEvtSummary, name) }
	}
	if gen.FormatDescription == nil {
		gen.FormatDescription = func(name string) string { return tr.Named(config.TKeyInviteBody, name) }
	}

	ics, err := gen.Calendar(s.Inv)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrAssetsBuild, err)
	}
	vcf, err := gen.HostCard(s.Inv)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrAssetsBuild, err)
	}
	png, err := share.QRCode(s.Inv.BaseURL, config.QRCodeSize)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrAssetsBuild, err)
	}

	s.Assets.Update(config.AssetEventICS, ics)
	s.Assets.Update(config.AssetHostVCF, vcf)
	s.Assets.Update(config.AssetQRCode, png)

	slog.Info(config.MsgAssetsReady, config.LogKeyComponent, config.CompServer)
	return nil
}

// Start serves on the invitation's listen address and blocks until the
// context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s.Inv.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	// No WriteTimeout: the countdown stream stays open for as long as the page does.
	srv := &http.Server{
		Addr:        s.Inv.ListenAddr(),
		Handler:     s.Handler(),
		ReadTimeout: config.ServerReadTimeout,
		IdleTimeout: config.ServerIdleTimeout,
		BaseContext: func(_ net.Listener) context.Context { return ctx },
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Inv.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}
