package rsvp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/tartampluch/go-thoinoi/internal/config"
)

var (
	ErrSubmitInProgress = errors.New(config.ErrSubmitInProgress)
	ErrFormDiscarded    = errors.New(config.ErrFormDiscarded)
	ErrUnknownField     = errors.New(config.ErrUnknownField)
)

// State is a read-only view of a form.
type State struct {
	Draft      Entry       `json:"draft"`
	Errors     FieldErrors `json:"errors,omitempty"`
	Submitting bool        `json:"submitting"`
}

// Form holds one visitor's draft registration, the errors currently shown
// next to its fields, and whether a submission is in flight.
type Form struct {
	mu         sync.Mutex
	draft      Entry
	errs       FieldErrors
	submitting bool
	discarded  bool
	submitter  Submitter
}

// NewForm creates an empty form that hands valid entries to s.
func NewForm(s Submitter) *Form {
	return &Form{
		draft:     DefaultEntry(),
		submitter: s,
	}
}

// State returns a copy of the current form state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	st := State{Draft: f.draft, Submitting: f.submitting}
	if len(f.errs) > 0 {
		st.Errors = make(FieldErrors, len(f.errs))
		for k, v := range f.errs {
			st.Errors[k] = v
		}
	}
	return st
}

// Set updates one draft field from its raw input and clears the error shown
// for it. A guest count that is not a positive number falls back to the default.
func (f *Form) Set(field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.set(field, value)
}

// Apply sets several fields at once. Unknown fields are rejected before
// anything is changed.
func (f *Form) Apply(fields map[string]string) error {
	for field := range fields {
		if !knownField(field) {
			return fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for field, value := range fields {
		if err := f.set(field, value); err != nil {
			return err
		}
	}
	return nil
}

// SetEntry replaces the whole draft. Errors of fields whose value changed are cleared.
func (f *Form) SetEntry(e Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setEntry(e)
}

func (f *Form) set(field, value string) error {
	switch field {
	case config.FieldName:
		f.draft.Name = value
	case config.FieldPhone:
		f.draft.Phone = value
	case config.FieldMessage:
		f.draft.Message = value
	case config.FieldGuestCount:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n == 0 {
			n = config.DefaultGuestCount
		}
		f.draft.GuestCount = n
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	delete(f.errs, field)
	return nil
}

func (f *Form) setEntry(e Entry) {
	if e.Name != f.draft.Name {
		delete(f.errs, config.FieldName)
	}
	if e.Phone != f.draft.Phone {
		delete(f.errs, config.FieldPhone)
	}
	if e.GuestCount != f.draft.GuestCount {
		delete(f.errs, config.FieldGuestCount)
	}
	if e.Message != f.draft.Message {
		delete(f.errs, config.FieldMessage)
	}
	f.draft = e
}

func knownField(field string) bool {
	switch field {
	case config.FieldName, config.FieldPhone, config.FieldGuestCount, config.FieldMessage:
		return true
	}
	return false
}

// Submit validates the draft and, when valid, hands it to the submitter.
//
// On validation failure the draft is kept and the returned error is the
// FieldErrors. On success the draft is reset to its defaults. If ctx is
// cancelled or the form is discarded while the submitter is running, the
// completion leaves the draft untouched.
func (f *Form) Submit(ctx context.Context) (Confirmation, error) {
	return f.submit(ctx, nil)
}

// SubmitEntry replaces the draft with e and submits it. A busy or discarded
// form rejects the call without touching its draft.
func (f *Form) SubmitEntry(ctx context.Context, e Entry) (Confirmation, error) {
	return f.submit(ctx, &e)
}

func (f *Form) submit(ctx context.Context, e *Entry) (Confirmation, error) {
	log := slog.With(config.LogKeyComponent, config.CompRSVP)

	f.mu.Lock()
	if f.discarded {
		f.mu.Unlock()
		return Confirmation{}, ErrFormDiscarded
	}
	if f.submitting {
		f.mu.Unlock()
		return Confirmation{}, ErrSubmitInProgress
	}
	if e != nil {
		f.setEntry(*e)
	}
	if errs := Validate(f.draft); errs != nil {
		f.errs = errs
		f.mu.Unlock()
		log.Info(config.MsgRSVPInvalid, config.LogKeyFields, errs.Fields())
		return Confirmation{}, errs
	}
	f.errs = nil
	f.submitting = true
	entry := f.draft.Normalized()
	f.mu.Unlock()

	conf, err := f.submitter.Submit(ctx, entry)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false

	if f.discarded {
		log.Debug(config.MsgRSVPDropped)
		return Confirmation{}, ErrFormDiscarded
	}
	if err != nil {
		log.Debug(config.MsgRSVPDropped, config.LogKeyError, err)
		return Confirmation{}, err
	}

	f.draft = DefaultEntry()
	log.Info(config.MsgRSVPAccepted,
		config.LogKeyConfirm, conf.ID.String(),
		config.LogKeyGuests, conf.GuestCount,
	)
	return conf, nil
}

// Discard detaches the form from its visitor. Submissions still in flight
// complete without touching it and later calls fail with ErrFormDiscarded.
func (f *Form) Discard() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.discarded = true
}
