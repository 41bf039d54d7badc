package geolocation

import (
	"context"
	"fmt"
	"sync"

	"github.com/localpulse/localpulse/internal/domain/entities"
	"github.com/localpulse/localpulse/internal/domain/providers"
)

type locationAnswer struct {
	coords *entities.Coordinates
	err    error
}

// ReportedLocationSource is fed by the browser's geolocation callback over HTTP.
// Only the first answer counts; later reports are ignored.
type ReportedLocationSource struct {
	once   sync.Once
	answer chan locationAnswer
}

var (
	_ providers.LocationSource   = (*ReportedLocationSource)(nil)
	_ providers.LocationReporter = (*ReportedLocationSource)(nil)
)

// NewReportedLocationSource creates a source waiting for its single answer
func NewReportedLocationSource() *ReportedLocationSource {
	return &ReportedLocationSource{answer: make(chan locationAnswer, 1)}
}

// Report records the position; it returns false if an answer was already recorded
func (s *ReportedLocationSource) Report(coords entities.Coordinates) bool {
	if !coords.Valid() {
		return s.deliver(locationAnswer{err: fmt.Errorf("%w: coordinates out of range", providers.ErrLocationUnavailable)})
	}
	c := coords
	return s.deliver(locationAnswer{coords: &c})
}

// Deny records a refusal or a missing capability
func (s *ReportedLocationSource) Deny(reason string) bool {
	return s.deliver(locationAnswer{err: fmt.Errorf("%w: %s", providers.ErrLocationDenied, reason)})
}

func (s *ReportedLocationSource) deliver(a locationAnswer) bool {
	delivered := false
	s.once.Do(func() {
		s.answer <- a
		delivered = true
	})
	return delivered
}

// CurrentPosition blocks until the browser answers or ctx is done
func (s *ReportedLocationSource) CurrentPosition(ctx context.Context) (*entities.Coordinates, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case a := <-s.answer:
		return a.coords, a.err
	}
}
