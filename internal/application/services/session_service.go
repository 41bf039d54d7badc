package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/localpulse/localpulse/internal/domain/entities"
	"github.com/localpulse/localpulse/internal/domain/providers"
	"github.com/localpulse/localpulse/internal/domain/repositories"
	"github.com/localpulse/localpulse/internal/infrastructure/observability"
	apperrors "github.com/localpulse/localpulse/pkg/errors"
)

// SessionServiceConfig holds page-view lifecycle settings
type SessionServiceConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
	// InitialCity seeds new sessions from the static dataset when set.
	InitialCity   string
	WelcomePolicy entities.WelcomePolicy
}

// PageState is the full state of one page view as rendered by both panes.
type PageState struct {
	SessionID string                      `json:"session_id"`
	Keywords  string                      `json:"keywords,omitempty"`
	City      string                      `json:"city,omitempty"`
	Sequence  uint64                      `json:"sequence"`
	Loading   bool                        `json:"loading"`
	Results   []entities.SearchResultItem `json:"results"`
	HoveredID string                      `json:"hovered_id,omitempty"`
	Location  entities.UserLocation       `json:"location"`
	Welcome   entities.WelcomeView        `json:"welcome"`
	List      entities.ListView           `json:"list"`
	Map       entities.MapScene           `json:"map"`
}

// SessionService coordinates page views: search dispatch, browse mode, the
// shared hover state, the location probe and event fan-out.
type SessionService struct {
	dispatcher  *SearchDispatcher
	normalizer  *ResultNormalizer
	seeds       repositories.SeedRepository
	renderer    *MapRenderer
	list        *ResultsList
	bus         providers.EventBus
	newLocation func() providers.ReportableLocationSource
	cfg         SessionServiceConfig

	mu       sync.RWMutex
	sessions map[string]*PageSession
	now      func() time.Time
}

// NewSessionService creates a new session service
func NewSessionService(
	dispatcher *SearchDispatcher,
	normalizer *ResultNormalizer,
	seeds repositories.SeedRepository,
	renderer *MapRenderer,
	list *ResultsList,
	bus providers.EventBus,
	newLocation func() providers.ReportableLocationSource,
	cfg SessionServiceConfig,
) *SessionService {
	if cfg.WelcomePolicy == "" {
		cfg.WelcomePolicy = entities.WelcomeSticky
	}
	return &SessionService{
		dispatcher:  dispatcher,
		normalizer:  normalizer,
		seeds:       seeds,
		renderer:    renderer,
		list:        list,
		bus:         bus,
		newLocation: newLocation,
		cfg:         cfg,
		sessions:    make(map[string]*PageSession),
		now:         time.Now,
	}
}

// SetClock replaces the time source; used by tests of session expiry
func (s *SessionService) SetClock(now func() time.Time) {
	s.now = now
}

// Create opens a page view, starts its location probe and renders the default map
func (s *SessionService) Create(ctx context.Context) (*PageState, error) {
	source := s.newLocation()
	sess := &PageSession{
		ID:        uuid.New().String(),
		CreatedAt: s.now(),
		lastSeen:  s.now(),
		hover:     NewHoverState(),
		probe:     NewLocationProbe(source),
		reporter:  source,
	}

	surface, err := s.renderer.NewSurface()
	switch {
	case errors.Is(err, providers.ErrMapNotConfigured):
		sess.surfaceErr = err
		log.Warn().Err(err).Str("session_id", sess.ID).Msg("map backend not configured, serving configuration notice")
	case err != nil:
		return nil, apperrors.NewInternalError("failed to create map surface", err)
	default:
		sess.surface = surface
		surface.OnMarkerHoverChange(func(id string) {
			if id == "" {
				sess.hover.Clear(HoverSourceMap)
				return
			}
			if _, err := sess.hover.Set(id, HoverSourceMap); err != nil {
				log.Debug().Err(err).Str("session_id", sess.ID).Msg("ignoring hover on stale marker")
			}
		})
		sess.hover.OnChange(func(change HoverChange) {
			surface.Highlight(change.Current)
		})
		s.renderer.Render(surface, nil, sess.probe.State())
	}

	sess.probe.OnResolve(func(location entities.UserLocation) {
		sess.locationResolved(s.renderer, location)
		s.publish(context.Background(), &entities.PageEvent{
			SessionID: sess.ID,
			Type:      entities.EventLocationResolved,
			Location:  &location,
		})
	})
	probeCtx, cancel := context.WithCancel(context.Background())
	sess.cancelProbe = cancel
	sess.probe.Start(probeCtx)

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	log.Info().Str("session_id", sess.ID).Msg("page session created")

	if s.cfg.InitialCity != "" {
		if _, err := s.Browse(ctx, sess.ID, s.cfg.InitialCity); err != nil {
			log.Warn().Err(err).Str("session_id", sess.ID).Str("city", s.cfg.InitialCity).Msg("failed to seed session from initial city")
		}
	}
	return s.State(ctx, sess.ID)
}

func (s *SessionService) get(id string) (*PageSession, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("session %s not found", id))
	}
	sess.touch(s.now())
	return sess, nil
}

// State returns the whole page state with the default list filter and order
func (s *SessionService) State(ctx context.Context, id string) (*PageState, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return s.state(sess), nil
}

func (s *SessionService) state(sess *PageSession) *PageState {
	snap := sess.snapshot()
	hovered := sess.hover.Get()
	welcome := snap.welcome.View(s.cfg.WelcomePolicy, len(snap.items))

	return &PageState{
		SessionID: sess.ID,
		Keywords:  snap.keywords,
		City:      snap.city,
		Sequence:  snap.sequence,
		Loading:   snap.loading,
		Results:   snap.items,
		HoveredID: hovered,
		Location:  sess.probe.State(),
		Welcome:   welcome,
		List:      s.list.View(snap.items, entities.ListFilterAll, entities.SortNameAsc, hovered, snap.loading),
		Map:       s.renderer.Scene(sess.surface, welcome),
	}
}

// Search runs a smart search for the session. A response that arrives after a
// newer search or browse was issued is discarded with ErrSearchSuperseded.
func (s *SessionService) Search(ctx context.Context, id, keywords string) (*PageState, error) {
	keywords = strings.TrimSpace(keywords)
	if err := ValidateKeywords(keywords); err != nil {
		return nil, err
	}
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}

	seq := sess.beginRequest()
	s.publish(ctx, &entities.PageEvent{SessionID: id, Type: entities.EventSearchStarted, Sequence: seq})

	items, err := s.dispatcher.Dispatch(ctx, keywords, sess.probe.State())
	if err != nil {
		if staleErr := sess.failRequest(seq); staleErr != nil {
			recordStaleSearch(ctx)
			return nil, staleErr
		}
		observability.LoggerFromContext(observability.ContextWithSession(ctx, id)).Warn().
			Err(err).Uint64("sequence", seq).Msg("search failed, keeping previous results")
		s.publish(ctx, &entities.PageEvent{
			SessionID: id,
			Type:      entities.EventSearchFailed,
			Sequence:  seq,
			Message:   SearchFailedMessage,
		})
		return nil, err
	}

	return s.apply(ctx, sess, seq, items, keywords, "")
}

// Browse replaces the results with the seed places of one city; "All" selects every city
func (s *SessionService) Browse(ctx context.Context, id, city string) (*PageState, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		city = repositories.AllCities
	}
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}

	cities, err := s.seeds.Cities(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list cities", err)
	}
	if city != repositories.AllCities && !slices.ContainsFunc(cities, func(c string) bool { return strings.EqualFold(c, city) }) {
		return nil, apperrors.NewFieldValidationError("city", fmt.Sprintf("unknown city %q", city))
	}

	seq := sess.beginRequest()
	raw, err := s.seeds.ListByCity(ctx, city)
	if err != nil {
		_ = sess.failRequest(seq)
		return nil, apperrors.NewInternalError("failed to load seed places", err)
	}
	items, err := s.normalizer.Normalize(ctx, raw)
	if err != nil {
		_ = sess.failRequest(seq)
		return nil, apperrors.NewInternalError("failed to normalize seed places", err)
	}
	return s.apply(ctx, sess, seq, items, "", city)
}

func (s *SessionService) apply(ctx context.Context, sess *PageSession, seq uint64, items []entities.SearchResultItem, keywords, city string) (*PageState, error) {
	welcomeChanged, err := sess.replaceResults(seq, items, keywords, city, s.renderer, s.cfg.WelcomePolicy)
	if err != nil {
		recordStaleSearch(ctx)
		observability.LoggerFromContext(ctx).Debug().
			Str("session_id", sess.ID).
			Uint64("sequence", seq).
			Msg("discarding stale results")
		return nil, err
	}

	s.publish(ctx, &entities.PageEvent{
		SessionID:   sess.ID,
		Type:        entities.EventResultsReplaced,
		Sequence:    seq,
		ResultCount: len(items),
	})
	if welcomeChanged {
		s.publish(ctx, &entities.PageEvent{SessionID: sess.ID, Type: entities.EventWelcomeChanged})
	}
	return s.state(sess), nil
}

// Cities lists the seed cities prefixed with "All"
func (s *SessionService) Cities(ctx context.Context) ([]string, error) {
	cities, err := s.seeds.Cities(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list cities", err)
	}
	return append([]string{repositories.AllCities}, cities...), nil
}

// SetHover hovers result id from the given pane
func (s *SessionService) SetHover(ctx context.Context, id, resultID string, source HoverSource) (string, error) {
	if resultID == "" {
		return "", apperrors.NewFieldValidationError("id", "result id is required")
	}
	return s.changeHover(ctx, id, resultID, source)
}

// ClearHover removes the hover from the given pane
func (s *SessionService) ClearHover(ctx context.Context, id string, source HoverSource) (string, error) {
	return s.changeHover(ctx, id, "", source)
}

func (s *SessionService) changeHover(ctx context.Context, id, resultID string, source HoverSource) (string, error) {
	sess, err := s.get(id)
	if err != nil {
		return "", err
	}
	changed, err := sess.hoverFrom(resultID, source)
	if err != nil {
		return "", err
	}
	current := sess.hover.Get()
	if changed {
		s.publish(ctx, &entities.PageEvent{
			SessionID: id,
			Type:      entities.EventHoverChanged,
			HoveredID: current,
			Source:    string(source),
		})
	}
	return current, nil
}

// DismissWelcome closes the welcome overlay
func (s *SessionService) DismissWelcome(ctx context.Context, id string) (entities.WelcomeView, error) {
	sess, err := s.get(id)
	if err != nil {
		return entities.WelcomeView{}, err
	}
	if sess.dismissWelcome(s.cfg.WelcomePolicy) {
		s.publish(ctx, &entities.PageEvent{SessionID: id, Type: entities.EventWelcomeChanged})
	}
	snap := sess.snapshot()
	return snap.welcome.View(s.cfg.WelcomePolicy, len(snap.items)), nil
}

// ReportLocation records the browser's position and waits for the probe to resolve
func (s *SessionService) ReportLocation(ctx context.Context, id string, coords entities.Coordinates) (entities.UserLocation, error) {
	if !coords.Valid() {
		return entities.UserLocation{}, apperrors.NewValidationError(fmt.Sprintf("coordinates %s are out of range", coords))
	}
	sess, err := s.get(id)
	if err != nil {
		return entities.UserLocation{}, err
	}
	if !sess.reporter.Report(coords) {
		return entities.UserLocation{}, apperrors.NewConflictError("location was already reported for this session", nil)
	}
	return s.awaitLocation(ctx, sess)
}

// DenyLocation records a refused or unavailable geolocation request
func (s *SessionService) DenyLocation(ctx context.Context, id, reason string) (entities.UserLocation, error) {
	sess, err := s.get(id)
	if err != nil {
		return entities.UserLocation{}, err
	}
	if !sess.reporter.Deny(reason) {
		return entities.UserLocation{}, apperrors.NewConflictError("location was already reported for this session", nil)
	}
	return s.awaitLocation(ctx, sess)
}

func (s *SessionService) awaitLocation(ctx context.Context, sess *PageSession) (entities.UserLocation, error) {
	select {
	case <-sess.probe.Done():
	case <-ctx.Done():
	}
	return sess.probe.State(), nil
}

// ListView renders the results list with a filter and sort order
func (s *SessionService) ListView(ctx context.Context, id string, filter entities.ListFilter, order entities.SortOrder) (entities.ListView, error) {
	sess, err := s.get(id)
	if err != nil {
		return entities.ListView{}, err
	}
	snap := sess.snapshot()
	return s.list.View(snap.items, filter, order, sess.hover.Get(), snap.loading), nil
}

// MapScene returns the map state with the welcome overlay
func (s *SessionService) MapScene(ctx context.Context, id string) (entities.MapScene, error) {
	sess, err := s.get(id)
	if err != nil {
		return entities.MapScene{}, err
	}
	snap := sess.snapshot()
	return s.renderer.Scene(sess.surface, snap.welcome.View(s.cfg.WelcomePolicy, len(snap.items))), nil
}

// StaticMap renders the session's map as an image
func (s *SessionService) StaticMap(ctx context.Context, id string, width, height int) ([]byte, string, error) {
	scene, err := s.MapScene(ctx, id)
	if err != nil {
		return nil, "", err
	}
	return s.renderer.StaticImage(ctx, scene, width, height)
}

// Subscribe streams the session's events until ctx is done
func (s *SessionService) Subscribe(ctx context.Context, id string) (<-chan *entities.PageEvent, error) {
	if _, err := s.get(id); err != nil {
		return nil, err
	}
	ch, err := s.bus.Subscribe(ctx, providers.GetSessionChannel(id))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to subscribe to session events", err)
	}
	return ch, nil
}

func (s *SessionService) publish(ctx context.Context, event *entities.PageEvent) {
	event.ID = uuid.New().String()
	event.Timestamp = s.now()
	if err := s.bus.Publish(ctx, providers.GetSessionChannel(event.SessionID), event); err != nil {
		observability.LoggerFromContext(observability.ContextWithSession(ctx, event.SessionID)).Warn().
			Err(err).Str("event", string(event.Type)).Msg("failed to publish page event")
	}
}

// Sweep drops sessions idle for longer than the TTL and returns how many were removed
func (s *SessionService) Sweep() int {
	if s.cfg.TTL <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.cfg.TTL)

	s.mu.Lock()
	var expired []*PageSession
	for id, sess := range s.sessions {
		if sess.idleSince().Before(cutoff) {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		sess.cancelProbe()
	}
	if len(expired) > 0 {
		log.Info().Int("count", len(expired)).Msg("expired idle page sessions")
	}
	return len(expired)
}

// StartJanitor sweeps idle sessions until ctx is done
func (s *SessionService) StartJanitor(ctx context.Context) {
	if s.cfg.SweepInterval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(s.cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}

// Close stops every location probe and forgets all sessions
func (s *SessionService) Close() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*PageSession)
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.cancelProbe()
	}
}
