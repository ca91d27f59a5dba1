package rsvp

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Confirmation is returned once a registration has been accepted.
type Confirmation struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	GuestCount int       `json:"guestCount"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// Submitter delivers a validated entry.
type Submitter interface {
	Submit(ctx context.Context, e Entry) (Confirmation, error)
}

// SimulatedSubmitter stands in for a real backend: it always succeeds after Delay.
type SimulatedSubmitter struct {
	Delay time.Duration
}

// Submit waits for Delay, or returns ctx.Err() if the caller goes away first.
func (s SimulatedSubmitter) Submit(ctx context.Context, e Entry) (Confirmation, error) {
	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return Confirmation{}, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return Confirmation{}, err
	}

	return Confirmation{
		ID:         uuid.New(),
		Name:       e.Name,
		GuestCount: e.GuestCount,
		ReceivedAt: time.Now().UTC(),
	}, nil
}
