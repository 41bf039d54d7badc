package services

import (
	"fmt"
	"sync"

	apperrors "github.com/localpulse/localpulse/pkg/errors"
)

// HoverSource names the pane that changed the hover state.
type HoverSource string

const (
	HoverSourceList HoverSource = "list"
	HoverSourceMap  HoverSource = "map"
	// HoverSourceSystem marks resets caused by a result replacement.
	HoverSourceSystem HoverSource = "system"
)

// ParseHoverSource accepts "list" or "map"; empty defaults to list
func ParseHoverSource(s string) (HoverSource, error) {
	switch HoverSource(s) {
	case "", HoverSourceList:
		return HoverSourceList, nil
	case HoverSourceMap:
		return HoverSourceMap, nil
	}
	return "", apperrors.NewFieldValidationError("source", fmt.Sprintf("unknown hover source %q", s))
}

// HoverChange describes one transition of the hovered id.
type HoverChange struct {
	Previous string
	Current  string
	Source   HoverSource
}

// HoverState is the single hovered result id shared by the list and the map.
// Only ids of the current result set are accepted.
type HoverState struct {
	mu        sync.Mutex
	current   string
	known     map[string]struct{}
	listeners []func(HoverChange)
}

// NewHoverState creates an empty hover state with no known ids
func NewHoverState() *HoverState {
	return &HoverState{known: make(map[string]struct{})}
}

// OnChange registers fn to run after every transition
func (h *HoverState) OnChange(fn func(HoverChange)) {
	h.mu.Lock()
	h.listeners = append(h.listeners, fn)
	h.mu.Unlock()
}

// Get returns the hovered id or ""
func (h *HoverState) Get() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Known reports whether id belongs to the current result set
func (h *HoverState) Known(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.known[id]
	return ok
}

// Set hovers id; it reports whether the value changed
func (h *HoverState) Set(id string, source HoverSource) (bool, error) {
	h.mu.Lock()
	if _, ok := h.known[id]; !ok {
		h.mu.Unlock()
		return false, apperrors.NewNotFoundError(fmt.Sprintf("result %q is not in the current result set", id))
	}
	change, changed := h.swap(id, source)
	h.mu.Unlock()

	if changed {
		h.notify(change)
	}
	return changed, nil
}

// Clear removes the hover; it reports whether the value changed
func (h *HoverState) Clear(source HoverSource) bool {
	h.mu.Lock()
	change, changed := h.swap("", source)
	h.mu.Unlock()

	if changed {
		h.notify(change)
	}
	return changed
}

// Reset installs the ids of a new result set and clears the hover
func (h *HoverState) Reset(ids []string) bool {
	h.mu.Lock()
	h.known = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		h.known[id] = struct{}{}
	}
	change, changed := h.swap("", HoverSourceSystem)
	h.mu.Unlock()

	if changed {
		h.notify(change)
	}
	return changed
}

func (h *HoverState) swap(id string, source HoverSource) (HoverChange, bool) {
	if h.current == id {
		return HoverChange{}, false
	}
	change := HoverChange{Previous: h.current, Current: id, Source: source}
	h.current = id
	return change, true
}

func (h *HoverState) notify(change HoverChange) {
	h.mu.Lock()
	listeners := append([]func(HoverChange){}, h.listeners...)
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(change)
	}
}
