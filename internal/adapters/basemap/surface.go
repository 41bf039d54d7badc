package basemap

import (
	"sync"

	"github.com/localpulse/localpulse/internal/domain/entities"
	"github.com/localpulse/localpulse/internal/domain/providers"
)

// Surface is the server-side mirror of one client map. Backends differ only in
// their basemap description and static rendering, so they share this state.
type Surface struct {
	mu         sync.Mutex
	basemap    entities.Basemap
	center     entities.Coordinates
	zoom       int
	bounds     *entities.Bounds
	markers    []entities.Marker
	index      map[string]int
	clusters   []entities.Cluster
	hovered    string
	generation uint64
	onHover    func(id string)
}

var _ providers.MapSurface = (*Surface)(nil)

// NewSurface creates an empty surface for basemap
func NewSurface(basemap entities.Basemap) *Surface {
	return &Surface{basemap: basemap, index: make(map[string]int)}
}

// PlaceMarkers replaces the marker set and bumps the generation
func (s *Surface) PlaceMarkers(markers []entities.Marker, clusters []entities.Cluster) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.markers = append([]entities.Marker(nil), markers...)
	s.clusters = make([]entities.Cluster, len(clusters))
	s.index = make(map[string]int, len(markers))
	for i := range s.markers {
		s.index[s.markers[i].ID] = i
	}
	if _, ok := s.index[s.hovered]; !ok {
		s.hovered = ""
	}
	for i := range s.markers {
		s.markers[i].Style = entities.StyleFor(s.markers[i].ID == s.hovered)
	}
	for i, cl := range clusters {
		cl.MarkerIDs = append([]string(nil), cl.MarkerIDs...)
		cl.Highlighted = containsID(cl.MarkerIDs, s.hovered)
		s.clusters[i] = cl
	}
	s.generation++
}

func (s *Surface) SetCenter(center entities.Coordinates) {
	s.mu.Lock()
	s.center = center
	s.mu.Unlock()
}

func (s *Surface) SetZoom(zoom int) {
	s.mu.Lock()
	s.zoom = zoom
	s.mu.Unlock()
}

func (s *Surface) SetBounds(bounds *entities.Bounds) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if bounds == nil {
		s.bounds = nil
		return
	}
	b := *bounds
	s.bounds = &b
}

// Highlight moves the accent style from the previous hovered marker to id.
// Unknown ids clear the highlight.
func (s *Surface) Highlight(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[id]; !ok {
		id = ""
	}
	if id == s.hovered {
		return
	}
	prev := s.hovered
	s.hovered = id

	if i, ok := s.index[prev]; ok {
		s.markers[i].Style = entities.MarkerPrimary
	}
	if i, ok := s.index[id]; ok {
		s.markers[i].Style = entities.MarkerAccent
	}
	for i := range s.clusters {
		ids := s.clusters[i].MarkerIDs
		if containsID(ids, prev) || containsID(ids, id) {
			s.clusters[i].Highlighted = containsID(ids, id)
		}
	}
}

// OnMarkerHoverChange registers the hover handler, replacing any previous one
func (s *Surface) OnMarkerHoverChange(fn func(id string)) {
	s.mu.Lock()
	s.onHover = fn
	s.mu.Unlock()
}

// MarkerHover reports a pointer entering or leaving a marker. Events for
// markers that are not on the surface are ignored.
func (s *Surface) MarkerHover(id string, hovering bool) {
	s.mu.Lock()
	_, known := s.index[id]
	fn := s.onHover
	s.mu.Unlock()

	if !known || fn == nil {
		return
	}
	if hovering {
		fn(id)
		return
	}
	fn("")
}

// Scene returns a deep copy of the surface state
func (s *Surface) Scene() entities.MapScene {
	s.mu.Lock()
	defer s.mu.Unlock()

	scene := entities.MapScene{
		Basemap:    s.basemap,
		Center:     s.center,
		Zoom:       s.zoom,
		Markers:    append([]entities.Marker{}, s.markers...),
		HoveredID:  s.hovered,
		Generation: s.generation,
	}
	if s.bounds != nil {
		b := *s.bounds
		scene.Bounds = &b
	}
	if len(s.clusters) > 0 {
		scene.Clusters = make([]entities.Cluster, len(s.clusters))
		for i, cl := range s.clusters {
			cl.MarkerIDs = append([]string(nil), cl.MarkerIDs...)
			scene.Clusters[i] = cl
		}
	}
	return scene
}

func containsID(ids []string, id string) bool {
	if id == "" {
		return false
	}
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
