package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/tartampluch/go-thoinoi/internal/config"
	"github.com/tartampluch/go-thoinoi/internal/engine"
	"github.com/tartampluch/go-thoinoi/internal/gallery"
	"github.com/tartampluch/go-thoinoi/internal/player"
	"github.com/tartampluch/go-thoinoi/internal/rsvp"
	"github.com/tartampluch/go-thoinoi/internal/ui"
)

type errorBody struct {
	Error string `json:"error"`
}

// sendJSON writes data with the given status.
func sendJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlNoStore)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompHTTP,
			config.LogKeyError, err,
		)
	}
}

func sendError(w http.ResponseWriter, status int, msg string) {
	sendJSON(w, status, errorBody{Error: msg})
}

// decodeBody reads a size-limited JSON body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxRequestBodySize)
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%s: %w", config.ErrBadJSON, err)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Page & Invitation
// -----------------------------------------------------------------------------

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.Sessions.Get(w, r)
	tr := s.Presenter.Translator(r)

	var buf bytes.Buffer
	if err := s.Presenter.RenderPage(&buf, tr, s.Sessions.Items()); err != nil {
		slog.Error(config.ErrTemplateRender,
			config.LogKeyComponent, config.CompHTTP,
			config.LogKeyError, err,
		)
		http.Error(w, config.HTTPMsgInternalErr, http.StatusInternalServerError)
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimeHTML)
	w.Header().Set(config.HeaderContentLanguage, tr.Lang)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleInvitation(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, s.Presenter.Invitation(s.Presenter.Translator(r)))
}

// -----------------------------------------------------------------------------
// Countdown
// -----------------------------------------------------------------------------

func (s *Server) handleCountdown(w http.ResponseWriter, r *http.Request) {
	left := engine.Remaining(s.Inv.EventTime, s.Clock.Now())
	sendJSON(w, http.StatusOK, s.Presenter.Countdown(s.Presenter.Translator(r), left))
}

// handleCountdownStream pushes one Server-Sent Event per second. The ticker
// is released as soon as the client goes away or the target is reached.
func (s *Server) handleCountdownStream(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	tr := s.Presenter.Translator(r)

	w.Header().Set(config.HeaderContentType, config.MimeEventStream)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlNoStore)
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		slog.Error(config.ErrStreamingUnsup,
			config.LogKeyComponent, config.CompHTTP,
			config.LogKeyError, err,
		)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	cd := engine.NewCountdown(s.Inv.EventTime, s.Clock)
	cd.Run(ctx, func(left engine.TimeRemaining) {
		payload, err := json.Marshal(s.Presenter.Countdown(tr, left))
		if err == nil {
			_, err = fmt.Fprintf(w, config.FormatSSEFrame, config.SSEEventCountdown, payload)
		}
		if err == nil {
			err = rc.Flush()
		}
		if err != nil || left.Reached {
			cancel()
		}
	})
}

// -----------------------------------------------------------------------------
// RSVP
// -----------------------------------------------------------------------------

type rsvpResponse struct {
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	Errors       map[string]string  `json:"errors,omitempty"`
	Confirmation *rsvp.Confirmation `json:"confirmation,omitempty"`
}

func (s *Server) handleRSVPSubmit(w http.ResponseWriter, r *http.Request) {
	sess := s.Sessions.Get(w, r)
	tr := s.Presenter.Translator(r)

	var entry rsvp.Entry
	if err := decodeBody(w, r, &entry); err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	conf, err := sess.Form.SubmitEntry(r.Context(), entry)

	var fieldErrs rsvp.FieldErrors
	switch {
	case err == nil:
		title, desc := s.Presenter.Confirmation(tr, conf.Name)
		sendJSON(w, http.StatusCreated, rsvpResponse{Title: title, Description: desc, Confirmation: &conf})
	case errors.As(err, &fieldErrs):
		sendJSON(w, http.StatusUnprocessableEntity, rsvpResponse{
			Title:       tr.Msg(config.TKeyToastBadTitle),
			Description: tr.Msg(config.TKeyToastBadDesc),
			Errors:      fieldErrs.Localize(tr.Msg),
		})
	case errors.Is(err, rsvp.ErrSubmitInProgress):
		sendJSON(w, http.StatusConflict, rsvpResponse{
			Title:       tr.Msg(config.TKeyToastFailTitle),
			Description: tr.Msg(config.TKeyToastFailDesc),
		})
	default:
		sendJSON(w, http.StatusServiceUnavailable, rsvpResponse{
			Title:       tr.Msg(config.TKeyToastFailTitle),
			Description: tr.Msg(config.TKeyToastFailDesc),
		})
	}
}

type draftResponse struct {
	Draft      rsvp.Entry        `json:"draft"`
	Errors     map[string]string `json:"errors,omitempty"`
	Submitting bool              `json:"submitting"`
}

// handleRSVPDraft applies field edits, clearing each edited field's error.
func (s *Server) handleRSVPDraft(w http.ResponseWriter, r *http.Request) {
	sess := s.Sessions.Get(w, r)
	tr := s.Presenter.Translator(r)

	var fields map[string]any
	if err := decodeBody(w, r, &fields); err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	edits, err := draftValues(fields)
	if err == nil {
		err = sess.Form.Apply(edits)
	}
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	st := sess.Form.State()
	sendJSON(w, http.StatusOK, draftResponse{
		Draft:      st.Draft,
		Errors:     st.Errors.Localize(tr.Msg),
		Submitting: st.Submitting,
	})
}

// draftValues turns decoded JSON into raw field inputs. Strings and numbers
// are taken as typed, null clears the field, anything else is rejected.
func draftValues(fields map[string]any) (map[string]string, error) {
	out := make(map[string]string, len(fields))
	for field, value := range fields {
		switch v := value.(type) {
		case nil:
			out[field] = ""
		case string:
			out[field] = v
		case json.Number:
			out[field] = v.String()
		default:
			return nil, fmt.Errorf("%s: %q", config.ErrFieldValue, field)
		}
	}
	return out, nil
}

// -----------------------------------------------------------------------------
// Gallery
// -----------------------------------------------------------------------------

type galleryResponse struct {
	Photos   []gallery.Item `json:"photos"`
	Lightbox gallery.View   `json:"lightbox"`
}

func (s *Server) handleGallery(w http.ResponseWriter, r *http.Request) {
	sess := s.Sessions.Get(w, r)
	tr := s.Presenter.Translator(r)

	var view gallery.View
	_ = sess.Gallery(func(nav *gallery.Navigator) error {
		view = nav.View()
		return nil
	})

	sendJSON(w, http.StatusOK, galleryResponse{
		Photos:   s.Presenter.Photos(tr, s.Sessions.Items()),
		Lightbox: s.Presenter.LightboxView(tr, view),
	})
}

func (s *Server) handleGalleryOpen(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue(config.PathValueIndex))
	if err != nil {
		sendError(w, http.StatusBadRequest, config.ErrIndexRange)
		return
	}

	sess := s.Sessions.Get(w, r)
	var view gallery.View
	err = sess.Gallery(func(nav *gallery.Navigator) error {
		if err := nav.Open(index); err != nil {
			return err
		}
		view = nav.View()
		return nil
	})
	if err != nil {
		sendError(w, http.StatusNotFound, err.Error())
		return
	}
	sendJSON(w, http.StatusOK, s.Presenter.LightboxView(s.Presenter.Translator(r), view))
}

// galleryAction adapts a navigator method into a handler returning the lightbox view.
func (s *Server) galleryAction(action func(*gallery.Navigator)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := s.Sessions.Get(w, r)
		var view gallery.View
		_ = sess.Gallery(func(nav *gallery.Navigator) error {
			action(nav)
			view = nav.View()
			return nil
		})
		sendJSON(w, http.StatusOK, s.Presenter.LightboxView(s.Presenter.Translator(r), view))
	}
}

// -----------------------------------------------------------------------------
// Player
// -----------------------------------------------------------------------------

type playerResponse struct {
	State    player.State     `json:"state"`
	Commands []player.Command `json:"commands"`
	Music    *ui.MusicView    `json:"music,omitempty"`
}

type playerEvent struct {
	Type   string `json:"type"`
	Detail string `json:"detail"`
}

func (s *Server) playerReply(w http.ResponseWriter, sess *ui.Session, st player.State) {
	sendJSON(w, http.StatusOK, playerResponse{State: st, Commands: sess.Audio.Drain()})
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	sess := s.Sessions.Get(w, r)
	music := s.Presenter.Invitation(s.Presenter.Translator(r)).Music
	sendJSON(w, http.StatusOK, playerResponse{
		State:    sess.Player.State(),
		Commands: sess.Audio.Drain(),
		Music:    &music,
	})
}

func (s *Server) handlePlayerToggle(w http.ResponseWriter, r *http.Request) {
	sess := s.Sessions.Get(w, r)
	s.playerReply(w, sess, sess.Player.TogglePlay(r.Context()))
}

func (s *Server) handlePlayerMute(w http.ResponseWriter, r *http.Request) {
	sess := s.Sessions.Get(w, r)
	s.playerReply(w, sess, sess.Player.ToggleMute())
}

func (s *Server) handlePlayerEvents(w http.ResponseWriter, r *http.Request) {
	sess := s.Sessions.Get(w, r)

	var ev playerEvent
	if err := decodeBody(w, r, &ev); err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	st, err := sess.Player.HandleEvent(r.Context(), ev.Type, ev.Detail)
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.playerReply(w, sess, st)
}

// -----------------------------------------------------------------------------
// Share
// -----------------------------------------------------------------------------

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	tr := s.Presenter.Translator(r)
	sendJSON(w, http.StatusOK, s.Presenter.Share(tr, r.URL.Query().Get(config.QueryParamURL)))
}
