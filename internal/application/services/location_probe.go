package services

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/localpulse/localpulse/internal/domain/entities"
	"github.com/localpulse/localpulse/internal/domain/providers"
)

// LocationProbe asks a LocationSource for the user's position exactly once and
// exposes the pending/available/denied outcome without ever blocking readers.
type LocationProbe struct {
	source providers.LocationSource

	once      sync.Once
	mu        sync.RWMutex
	state     entities.UserLocation
	done      chan struct{}
	listeners []func(entities.UserLocation)
}

// NewLocationProbe creates a pending probe over source
func NewLocationProbe(source providers.LocationSource) *LocationProbe {
	return &LocationProbe{
		source: source,
		state:  entities.UserLocation{Status: entities.LocationPending},
		done:   make(chan struct{}),
	}
}

// OnResolve registers fn to run once the probe leaves the pending state
func (p *LocationProbe) OnResolve(fn func(entities.UserLocation)) {
	p.mu.Lock()
	p.listeners = append(p.listeners, fn)
	p.mu.Unlock()
}

// Start launches the request in the background; later calls do nothing.
// Cancelling ctx before an answer leaves the probe pending for good.
func (p *LocationProbe) Start(ctx context.Context) {
	p.once.Do(func() {
		go p.run(ctx)
	})
}

// State returns the current outcome
func (p *LocationProbe) State() entities.UserLocation {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Done is closed once the probe resolved and its listeners ran
func (p *LocationProbe) Done() <-chan struct{} {
	return p.done
}

func (p *LocationProbe) run(ctx context.Context) {
	coords, err := p.source.CurrentPosition(ctx)
	if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		log.Debug().Err(err).Msg("geolocation request abandoned, staying pending")
		return
	}

	next := entities.UserLocation{Status: entities.LocationDenied}
	if err != nil || coords == nil {
		// Denial is expected user behavior and never surfaced.
		log.Debug().Err(err).Msg("geolocation unavailable, using default map view")
	} else {
		c := *coords
		next = entities.UserLocation{Status: entities.LocationAvailable, Coordinates: &c}
	}

	p.mu.Lock()
	p.state = next
	listeners := append([]func(entities.UserLocation){}, p.listeners...)
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
	close(p.done)
}
