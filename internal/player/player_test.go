package player_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-thoinoi/internal/player"
)

type MockAudio struct {
	mock.Mock
}

func (m *MockAudio) Play(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockAudio) Pause() {
	m.Called()
}

func (m *MockAudio) SetMuted(muted bool) {
	m.Called(muted)
}

func TestTogglePlay_Twice_RestoresState(t *testing.T) {
	audio := new(MockAudio)
	audio.On("Play", mock.Anything).Return(nil).Once()
	audio.On("Pause").Once()

	p := player.New(audio, true)
	before := p.State()

	assert.True(t, p.TogglePlay(context.Background()).Playing)
	assert.Equal(t, before, p.TogglePlay(context.Background()))
	audio.AssertExpectations(t)
}

func TestToggleMute_Twice_RestoresState(t *testing.T) {
	audio := new(MockAudio)
	audio.On("SetMuted", true).Once()
	audio.On("SetMuted", false).Once()

	p := player.New(audio, true)

	assert.True(t, p.ToggleMute().Muted)
	assert.False(t, p.ToggleMute().Muted)
	assert.False(t, p.State().Playing, "mute is independent of play")
	audio.AssertExpectations(t)
}

// TestTogglePlay_PlayFails keeps the toggle even when the resource refuses to play.
func TestTogglePlay_PlayFails(t *testing.T) {
	audio := new(MockAudio)
	audio.On("Play", mock.Anything).Return(errors.New("NotAllowedError"))

	p := player.New(audio, true)
	st := p.TogglePlay(context.Background())

	assert.True(t, st.Playing)
}

func TestHandleEnded(t *testing.T) {
	t.Run("Loop restarts", func(t *testing.T) {
		audio := new(MockAudio)
		audio.On("Play", mock.Anything).Return(nil).Twice()

		p := player.New(audio, true)
		p.TogglePlay(context.Background())

		assert.True(t, p.HandleEnded(context.Background()).Playing)
		audio.AssertExpectations(t)
	})

	t.Run("No loop stops", func(t *testing.T) {
		audio := new(MockAudio)
		audio.On("Play", mock.Anything).Return(nil).Once()

		p := player.New(audio, false)
		p.TogglePlay(context.Background())

		assert.False(t, p.HandleEnded(context.Background()).Playing)
		audio.AssertExpectations(t)
	})
}

func TestHandleError_RevertsToStopped(t *testing.T) {
	audio := new(MockAudio)
	audio.On("Play", mock.Anything).Return(nil)
	audio.On("SetMuted", true)

	p := player.New(audio, true)
	p.TogglePlay(context.Background())
	p.ToggleMute()

	st := p.HandleError(errors.New("MEDIA_ERR_SRC_NOT_SUPPORTED"))
	assert.Equal(t, player.State{Playing: false, Muted: true}, st)
}

func TestHandleEvent(t *testing.T) {
	audio := new(MockAudio)
	audio.On("Play", mock.Anything).Return(nil)

	p := player.New(audio, false)
	p.TogglePlay(context.Background())

	st, err := p.HandleEvent(context.Background(), player.EventPlayFailed, "blocked")
	require.NoError(t, err)
	assert.True(t, st.Playing, "a late play failure is only logged")

	st, err = p.HandleEvent(context.Background(), player.EventEnded, "")
	require.NoError(t, err)
	assert.False(t, st.Playing)

	p.TogglePlay(context.Background())
	st, err = p.HandleEvent(context.Background(), player.EventError, "404")
	require.NoError(t, err)
	assert.False(t, st.Playing)

	_, err = p.HandleEvent(context.Background(), "seeked", "")
	assert.ErrorIs(t, err, player.ErrUnknownEvent)
}

func TestCommandQueue(t *testing.T) {
	q := &player.CommandQueue{}
	p := player.New(q, true)

	assert.Equal(t, []player.Command{}, q.Drain())

	p.TogglePlay(context.Background())
	p.ToggleMute()
	p.ToggleMute()
	p.TogglePlay(context.Background())

	assert.Equal(t, []player.Command{player.CmdPlay, player.CmdMute, player.CmdUnmute, player.CmdPause}, q.Drain())
	assert.Empty(t, q.Drain())
}

func TestCommandQueue_PlayCancelled(t *testing.T) {
	q := &player.CommandQueue{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, q.Play(ctx), context.Canceled)
	assert.Empty(t, q.Drain())
}
