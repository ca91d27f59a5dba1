// Package player models the background music toggle.
package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tartampluch/go-thoinoi/internal/config"
)

var (
	ErrResource     = errors.New(config.ErrAudioResource)
	ErrUnknownEvent = errors.New(config.ErrUnknownEvent)
)

// Events reported back by the audio element.
const (
	EventEnded      = "ended"
	EventError      = "error"
	EventPlayFailed = "play_failed"
)

// Audio is the underlying sound resource.
type Audio interface {
	// Play may fail, for example when the browser blocks autoplay.
	Play(ctx context.Context) error
	Pause()
	SetMuted(muted bool)
}

// State is the visible player state.
type State struct {
	Playing bool `json:"isPlaying"`
	Muted   bool `json:"isMuted"`
}

// Player holds two independent toggles over an Audio resource.
type Player struct {
	mu      sync.Mutex
	audio   Audio
	loop    bool
	playing bool
	muted   bool
	log     *slog.Logger
}

// New creates a stopped, unmuted player.
func New(audio Audio, loop bool) *Player {
	return &Player{
		audio: audio,
		loop:  loop,
		log:   slog.With(config.LogKeyComponent, config.CompPlayer),
	}
}

// State returns the current toggles.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return State{Playing: p.playing, Muted: p.muted}
}

// TogglePlay flips isPlaying and issues the matching command. A failing play
// is logged and does not revert the toggle.
func (p *Player) TogglePlay(ctx context.Context) State {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.playing {
		p.audio.Pause()
	} else if err := p.audio.Play(ctx); err != nil {
		p.log.Warn(config.MsgPlayFailed, config.LogKeyError, err)
	}
	p.playing = !p.playing
	return State{Playing: p.playing, Muted: p.muted}
}

// ToggleMute flips isMuted on the resource.
func (p *Player) ToggleMute() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.muted = !p.muted
	p.audio.SetMuted(p.muted)
	return State{Playing: p.playing, Muted: p.muted}
}

// HandleEnded reacts to the end of the track: restart when looping, else stop.
func (p *Player) HandleEnded(ctx context.Context) State {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.log.Debug(config.MsgAudioEnded, config.LogKeyLoop, p.loop)
	if p.loop && p.playing {
		if err := p.audio.Play(ctx); err != nil {
			p.log.Warn(config.MsgPlayFailed, config.LogKeyError, err)
		}
	} else {
		p.playing = false
	}
	return State{Playing: p.playing, Muted: p.muted}
}

// HandleError records a resource failure and reverts to not playing.
func (p *Player) HandleError(cause error) State {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.log.Warn(config.MsgAudioError, config.LogKeyError, fmt.Errorf("%w: %w", ErrResource, cause))
	p.playing = false
	return State{Playing: p.playing, Muted: p.muted}
}

// ReportPlayFailure logs a play command that failed after it was issued.
// The visible state is left alone.
func (p *Player) ReportPlayFailure(cause error) State {
	p.log.Warn(config.MsgPlayFailed, config.LogKeyError, cause)
	return p.State()
}

// HandleEvent dispatches an event name reported by the client.
func (p *Player) HandleEvent(ctx context.Context, event, detail string) (State, error) {
	switch event {
	case EventEnded:
		return p.HandleEnded(ctx), nil
	case EventError:
		return p.HandleError(errors.New(detail)), nil
	case EventPlayFailed:
		return p.ReportPlayFailure(errors.New(detail)), nil
	default:
		return p.State(), fmt.Errorf("%w: %q", ErrUnknownEvent, event)
	}
}
