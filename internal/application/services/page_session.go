package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/localpulse/localpulse/internal/domain/entities"
	"github.com/localpulse/localpulse/internal/domain/providers"
	apperrors "github.com/localpulse/localpulse/pkg/errors"
)

// PageSession is the shared state of one page view: the result set, the
// hover id and the welcome overlay seen by both the list and the map.
type PageSession struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	items    []entities.SearchResultItem
	keywords string
	city     string
	issued   uint64
	settled  uint64
	welcome  entities.WelcomeState
	lastSeen time.Time

	hover    *HoverState
	probe    *LocationProbe
	reporter providers.LocationReporter
	surface  providers.MapSurface
	// surfaceErr explains why surface is nil.
	surfaceErr  error
	cancelProbe context.CancelFunc
}

func (p *PageSession) touch(now time.Time) {
	p.mu.Lock()
	p.lastSeen = now
	p.mu.Unlock()
}

func (p *PageSession) idleSince() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastSeen
}

// beginRequest issues the next sequence number; any response for an earlier
// number is stale from now on.
func (p *PageSession) beginRequest() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.issued++
	return p.issued
}

// latest reports whether seq is the most recently issued request. Callers hold mu.
func (p *PageSession) latest(seq uint64) error {
	if seq != p.issued {
		return apperrors.NewConflictError(
			fmt.Sprintf("request %d was superseded by request %d", seq, p.issued),
			ErrSearchSuperseded,
		)
	}
	return nil
}

// failRequest settles seq without touching the current results.
func (p *PageSession) failRequest(seq uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.latest(seq); err != nil {
		return err
	}
	p.settled = seq
	return nil
}

// loading reports whether the latest request is still outstanding. Callers hold mu.
func (p *PageSession) loading() bool {
	return p.settled < p.issued
}

// replaceResults installs a complete result set as the response to seq. The
// hover is cleared because ids of the previous set are no longer meaningful.
// It returns whether the welcome overlay visibility changed.
func (p *PageSession) replaceResults(seq uint64, items []entities.SearchResultItem, keywords, city string, renderer *MapRenderer, policy entities.WelcomePolicy) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.latest(seq); err != nil {
		return false, err
	}

	wasVisible := p.welcome.Visible(policy, len(p.items))

	p.items = items
	p.keywords = keywords
	p.city = city
	p.settled = seq

	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	p.hover.Reset(ids)
	renderer.Render(p.surface, items, p.probe.State())

	p.welcome.ObserveResults(len(items), policy)
	return wasVisible != p.welcome.Visible(policy, len(items)), nil
}

// dismissWelcome hides the overlay; it returns whether visibility changed.
func (p *PageSession) dismissWelcome(policy entities.WelcomePolicy) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	wasVisible := p.welcome.Visible(policy, len(p.items))
	p.welcome.Dismiss()
	return wasVisible
}

// locationResolved reframes an empty map around the newly known location.
func (p *PageSession) locationResolved(renderer *MapRenderer, location entities.UserLocation) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.items) == 0 {
		renderer.Reframe(p.surface, nil, location)
	}
}

// hoverFrom routes a hover change through the pane it came from so both panes
// observe one transition. It returns whether the hovered id changed.
func (p *PageSession) hoverFrom(id string, source HoverSource) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if id != "" && !p.hover.Known(id) {
		return false, apperrors.NewNotFoundError(fmt.Sprintf("result %q is not in the current result set", id))
	}

	if source == HoverSourceMap && p.surface != nil {
		before := p.hover.Get()
		if id == "" {
			p.surface.MarkerHover(before, false)
		} else {
			p.surface.MarkerHover(id, true)
		}
		return before != p.hover.Get(), nil
	}

	if id == "" {
		return p.hover.Clear(source), nil
	}
	return p.hover.Set(id, source)
}

type sessionSnapshot struct {
	items    []entities.SearchResultItem
	keywords string
	city     string
	sequence uint64
	loading  bool
	welcome  entities.WelcomeState
}

func (p *PageSession) snapshot() sessionSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return sessionSnapshot{
		items:    append([]entities.SearchResultItem{}, p.items...),
		keywords: p.keywords,
		city:     p.city,
		sequence: p.issued,
		loading:  p.loading(),
		welcome:  p.welcome,
	}
}
