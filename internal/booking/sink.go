package booking

import (
	"context"

	"github.com/chargehub/backend-go/internal/models"
)

// Sink is the external booking service boundary. It is the sole arbiter
// of slot conflicts: this core never locks capacity itself.
type Sink interface {
	Persist(ctx context.Context, b models.ConfirmedBooking) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, b models.ConfirmedBooking) error

func (f SinkFunc) Persist(ctx context.Context, b models.ConfirmedBooking) error {
	return f(ctx, b)
}
