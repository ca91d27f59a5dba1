package player

import (
	"context"
	"sync"
)

// Command is an instruction for the browser's audio element.
type Command string

const (
	CmdPlay   Command = "play"
	CmdPause  Command = "pause"
	CmdMute   Command = "mute"
	CmdUnmute Command = "unmute"
)

// CommandQueue is an Audio whose commands are collected and handed to the
// browser with the next response. Play never fails here; the browser
// reports failures back as events.
type CommandQueue struct {
	mu      sync.Mutex
	pending []Command
}

// Play queues a play command unless ctx is already done.
func (q *CommandQueue) Play(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	q.push(CmdPlay)
	return nil
}

// Pause queues a pause command.
func (q *CommandQueue) Pause() { q.push(CmdPause) }

// SetMuted queues mute or unmute.
func (q *CommandQueue) SetMuted(muted bool) {
	if muted {
		q.push(CmdMute)
		return
	}
	q.push(CmdUnmute)
}

// Drain returns the queued commands in order and empties the queue.
func (q *CommandQueue) Drain() []Command {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := q.pending
	q.pending = nil
	if out == nil {
		return []Command{}
	}
	return out
}

func (q *CommandQueue) push(c Command) {
	q.mu.Lock()
	q.pending = append(q.pending, c)
	q.mu.Unlock()
}
