package rsvp_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-thoinoi/internal/config"
	"github.com/tartampluch/go-thoinoi/internal/rsvp"
)

func validEntry() rsvp.Entry {
	return rsvp.Entry{
		Name:       "Nguyễn Văn An",
		Phone:      "0123456789",
		GuestCount: 2,
		Message:    "Chúc bé luôn khỏe mạnh!",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(e *rsvp.Entry)
		want   rsvp.FieldErrors
	}{
		{"Valid", func(e *rsvp.Entry) {}, nil},
		{"Valid five guests", func(e *rsvp.Entry) { e.GuestCount = 5 }, nil},
		{"Valid empty message", func(e *rsvp.Entry) { e.Message = "" }, nil},
		{"Empty name", func(e *rsvp.Entry) { e.Name = "" },
			rsvp.FieldErrors{config.FieldName: config.TKeyErrNameRequired}},
		{"Blank name is trimmed", func(e *rsvp.Entry) { e.Name = "   " },
			rsvp.FieldErrors{config.FieldName: config.TKeyErrNameRequired}},
		{"Name 101 chars", func(e *rsvp.Entry) { e.Name = strings.Repeat("a", 101) },
			rsvp.FieldErrors{config.FieldName: config.TKeyErrNameTooLong}},
		{"Name 100 accented chars", func(e *rsvp.Entry) { e.Name = strings.Repeat("ễ", 100) }, nil},
		{"Phone 5 chars", func(e *rsvp.Entry) { e.Phone = "12345" },
			rsvp.FieldErrors{config.FieldPhone: config.TKeyErrPhoneInvalid}},
		{"Phone 16 chars", func(e *rsvp.Entry) { e.Phone = "0123456789012345" },
			rsvp.FieldErrors{config.FieldPhone: config.TKeyErrPhoneTooLong}},
		{"Phone 15 chars", func(e *rsvp.Entry) { e.Phone = "+84123456789012" }, nil},
		{"Zero guests", func(e *rsvp.Entry) { e.GuestCount = 0 },
			rsvp.FieldErrors{config.FieldGuestCount: config.TKeyErrGuestsMin}},
		{"Eleven guests", func(e *rsvp.Entry) { e.GuestCount = 11 },
			rsvp.FieldErrors{config.FieldGuestCount: config.TKeyErrGuestsMax}},
		{"Message 501 chars", func(e *rsvp.Entry) { e.Message = strings.Repeat("x", 501) },
			rsvp.FieldErrors{config.FieldMessage: config.TKeyErrMessageLong}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEntry()
			tt.modify(&e)
			assert.Equal(t, tt.want, rsvp.Validate(e))
		})
	}
}

// TestValidate_NoShortCircuit ensures every invalid field is reported at once.
func TestValidate_NoShortCircuit(t *testing.T) {
	errs := rsvp.Validate(rsvp.Entry{Phone: "1", GuestCount: 42, Message: strings.Repeat("m", 600)})

	require.Len(t, errs, 4)
	assert.Equal(t, []string{config.FieldGuestCount, config.FieldMessage, config.FieldName, config.FieldPhone}, errs.Fields())
	assert.Contains(t, errs.Error(), "name: "+config.TKeyErrNameRequired)
}

// TestEntryTags_MatchLimits keeps the struct tags aligned with the published limits.
func TestEntryTags_MatchLimits(t *testing.T) {
	e := validEntry()

	e.Name = strings.Repeat("a", config.NameMaxLen)
	e.Phone = strings.Repeat("9", config.PhoneMinLen)
	e.GuestCount = config.GuestCountMax
	e.Message = strings.Repeat("m", config.MessageMaxLen)
	assert.Nil(t, rsvp.Validate(e))

	e.Phone = strings.Repeat("9", config.PhoneMaxLen)
	e.GuestCount = config.GuestCountMin
	assert.Nil(t, rsvp.Validate(e))
}

func TestFieldErrors_Localize(t *testing.T) {
	errs := rsvp.FieldErrors{config.FieldName: config.TKeyErrNameRequired}
	out := errs.Localize(func(key string) string { return "T(" + key + ")" })
	assert.Equal(t, map[string]string{config.FieldName: "T(" + config.TKeyErrNameRequired + ")"}, out)
}

// -----------------------------------------------------------------------------
// Form
// -----------------------------------------------------------------------------

type MockSubmitter struct {
	mock.Mock
}

func (m *MockSubmitter) Submit(ctx context.Context, e rsvp.Entry) (rsvp.Confirmation, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(rsvp.Confirmation), args.Error(1)
}

func fillForm(t *testing.T, f *rsvp.Form, e rsvp.Entry) {
	t.Helper()
	f.SetEntry(e)
}

func TestForm_Submit_Invalid_KeepsDraft(t *testing.T) {
	sub := new(MockSubmitter)
	f := rsvp.NewForm(sub)

	bad := validEntry()
	bad.Phone = "12345"
	fillForm(t, f, bad)

	_, err := f.Submit(context.Background())

	var fieldErrs rsvp.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, config.TKeyErrPhoneInvalid, fieldErrs[config.FieldPhone])

	st := f.State()
	assert.Equal(t, bad, st.Draft)
	assert.Equal(t, config.TKeyErrPhoneInvalid, st.Errors[config.FieldPhone])
	sub.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestForm_Set_ClearsFieldError(t *testing.T) {
	f := rsvp.NewForm(new(MockSubmitter))
	fillForm(t, f, rsvp.Entry{GuestCount: 0, Phone: "1"})

	_, err := f.Submit(context.Background())
	require.Error(t, err)
	require.Len(t, f.State().Errors, 3)

	require.NoError(t, f.Set(config.FieldName, "An"))
	st := f.State()
	assert.NotContains(t, st.Errors, config.FieldName)
	assert.Contains(t, st.Errors, config.FieldPhone)
	assert.Contains(t, st.Errors, config.FieldGuestCount)
	assert.Equal(t, "An", st.Draft.Name)
}

func TestForm_Set_GuestCountParsing(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"3", 3},
		{" 7 ", 7},
		{"", config.DefaultGuestCount},
		{"abc", config.DefaultGuestCount},
		{"0", config.DefaultGuestCount},
		{"12", 12},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			f := rsvp.NewForm(nil)
			require.NoError(t, f.Set(config.FieldGuestCount, tt.raw))
			assert.Equal(t, tt.want, f.State().Draft.GuestCount)
		})
	}
}

func TestForm_Set_UnknownField(t *testing.T) {
	f := rsvp.NewForm(nil)
	err := f.Set("email", "a@b.c")
	assert.ErrorIs(t, err, rsvp.ErrUnknownField)
}

func TestForm_Apply_AllOrNothing(t *testing.T) {
	f := rsvp.NewForm(nil)
	require.NoError(t, f.Set(config.FieldName, "An"))

	err := f.Apply(map[string]string{config.FieldName: "Lan", "email": "a@b.c"})
	assert.ErrorIs(t, err, rsvp.ErrUnknownField)
	assert.Equal(t, "An", f.State().Draft.Name, "rejected edits leave the draft untouched")

	require.NoError(t, f.Apply(map[string]string{config.FieldName: "Lan", config.FieldGuestCount: "4"}))
	st := f.State()
	assert.Equal(t, "Lan", st.Draft.Name)
	assert.Equal(t, 4, st.Draft.GuestCount)
}

func TestForm_Apply_ClearsEditedErrors(t *testing.T) {
	f := rsvp.NewForm(nil)
	_, err := f.Submit(context.Background())
	require.Error(t, err)
	require.Contains(t, f.State().Errors, config.FieldName)

	require.NoError(t, f.Apply(map[string]string{config.FieldName: "Lan"}))
	st := f.State()
	assert.NotContains(t, st.Errors, config.FieldName)
	assert.Contains(t, st.Errors, config.FieldPhone)
}

func TestForm_SubmitEntry_InProgress_KeepsDraft(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	sub := new(MockSubmitter)
	sub.On("Submit", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(rsvp.Confirmation{ID: uuid.New()}, nil).Once()

	f := rsvp.NewForm(sub)

	var (
		wg  sync.WaitGroup
		err error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err = f.SubmitEntry(context.Background(), validEntry())
	}()

	<-started
	_, second := f.SubmitEntry(context.Background(), rsvp.Entry{Name: "Người khác"})
	assert.ErrorIs(t, second, rsvp.ErrSubmitInProgress)
	assert.Equal(t, validEntry(), f.State().Draft, "a rejected submission does not overwrite the draft")

	close(release)
	wg.Wait()

	require.NoError(t, err)
	assert.Equal(t, rsvp.DefaultEntry(), f.State().Draft)
	sub.AssertExpectations(t)
}

func TestForm_Submit_Success_ResetsDraft(t *testing.T) {
	e := validEntry()
	e.Name = "  " + e.Name + "  "

	conf := rsvp.Confirmation{ID: uuid.New(), Name: strings.TrimSpace(e.Name), GuestCount: e.GuestCount}
	sub := new(MockSubmitter)
	sub.On("Submit", mock.Anything, e.Normalized()).Return(conf, nil)

	f := rsvp.NewForm(sub)
	fillForm(t, f, e)

	got, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, conf, got)

	st := f.State()
	assert.Equal(t, rsvp.DefaultEntry(), st.Draft)
	assert.Empty(t, st.Errors)
	assert.False(t, st.Submitting)
	sub.AssertExpectations(t)
}

func TestForm_Submit_Cancelled_KeepsDraft(t *testing.T) {
	f := rsvp.NewForm(rsvp.SimulatedSubmitter{Delay: time.Hour})
	fillForm(t, f, validEntry())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := f.Submit(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	st := f.State()
	assert.Equal(t, validEntry(), st.Draft)
	assert.False(t, st.Submitting)
}

// TestForm_Submit_Discarded ensures a completion arriving after the visitor
// left does not touch the form.
func TestForm_Submit_Discarded(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	sub := new(MockSubmitter)
	sub.On("Submit", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(rsvp.Confirmation{ID: uuid.New()}, nil)

	f := rsvp.NewForm(sub)
	fillForm(t, f, validEntry())

	var (
		wg  sync.WaitGroup
		err error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err = f.Submit(context.Background())
	}()

	<-started
	assert.True(t, f.State().Submitting)

	_, second := f.Submit(context.Background())
	assert.ErrorIs(t, second, rsvp.ErrSubmitInProgress)

	f.Discard()
	close(release)
	wg.Wait()

	assert.ErrorIs(t, err, rsvp.ErrFormDiscarded)
	assert.Equal(t, validEntry(), f.State().Draft)

	_, err = f.Submit(context.Background())
	assert.ErrorIs(t, err, rsvp.ErrFormDiscarded)
}

func TestSimulatedSubmitter(t *testing.T) {
	s := rsvp.SimulatedSubmitter{Delay: 5 * time.Millisecond}

	start := time.Now()
	conf, err := s.Submit(context.Background(), validEntry())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
	assert.NotEqual(t, uuid.Nil, conf.ID)
	assert.Equal(t, validEntry().Name, conf.Name)
	assert.Equal(t, 2, conf.GuestCount)
	assert.False(t, conf.ReceivedAt.IsZero())
}

func TestSimulatedSubmitter_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := rsvp.SimulatedSubmitter{}.Submit(ctx, validEntry())
	assert.True(t, errors.Is(err, context.Canceled))
}
