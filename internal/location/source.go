package location

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/chargehub/backend-go/internal/models"
)

// Provider is the platform geolocation boundary. Implementations may
// prompt the user for permission; that interaction is outside this
// package's control.
type Provider interface {
	CurrentPosition(ctx context.Context) (models.UserPosition, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context) (models.UserPosition, error)

func (f ProviderFunc) CurrentPosition(ctx context.Context) (models.UserPosition, error) {
	return f(ctx)
}

// Source wraps a Provider with a latest-fix cache and subscriber
// fan-out. Lookups are on demand; platforms that push fixes feed them
// in through Publish.
type Source struct {
	provider Provider

	mu          sync.RWMutex
	latest      *models.UserPosition
	subscribers map[int]func(models.UserPosition)
	nextSubID   int
}

func NewSource(provider Provider) *Source {
	return &Source{
		provider:    provider,
		subscribers: make(map[int]func(models.UserPosition)),
	}
}

// RequestPosition triggers a one-shot lookup. The caller's context
// carries the timeout; on provider failure or context expiry the result
// is *UnavailableError and the cached fix is left as it was. No retries
// are performed here.
func (s *Source) RequestPosition(ctx context.Context) (models.UserPosition, error) {
	type result struct {
		pos models.UserPosition
		err error
	}
	ch := make(chan result, 1)
	go func() {
		pos, err := s.provider.CurrentPosition(ctx)
		ch <- result{pos: pos, err: err}
	}()

	select {
	case <-ctx.Done():
		return models.UserPosition{}, NewUnavailableError("position request timed out", ctx.Err())
	case r := <-ch:
		if r.err != nil {
			return models.UserPosition{}, NewUnavailableError("provider failed", r.err)
		}
		s.Publish(r.pos)
		return r.pos, nil
	}
}

// Latest returns the most recent fix, if any. The returned value is a
// copy: matching is always computed against an explicit snapshot, never
// a live reference.
func (s *Source) Latest() (models.UserPosition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return models.UserPosition{}, false
	}
	return *s.latest, true
}

// Subscribe registers a callback for future fixes and returns a cancel
// function. Callbacks run asynchronously.
func (s *Source) Subscribe(fn func(models.UserPosition)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// Publish records a new fix and notifies subscribers. It is the entry
// point for platform push updates.
func (s *Source) Publish(pos models.UserPosition) {
	s.mu.Lock()
	s.latest = &pos
	subs := make([]func(models.UserPosition), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	log.Trace().
		Float64("lat", pos.Location.Latitude).
		Float64("lon", pos.Location.Longitude).
		Float64("accuracy_m", pos.AccuracyMeters).
		Msg("Position updated")

	for _, fn := range subs {
		go fn(pos)
	}
}
