// Package overlay models the pin-marker layer drawn over a proxied page: one
// marker per comment, at most one locally active, with resolved and
// remote-hover flags orthogonal to the activation cycle. The injected script
// renders from this model's semantics; keeping the state machine here lets
// the activation and indexing rules be tested without a browser.
package overlay

// State is a marker's position in the idle -> hovered -> active cycle.
type State int

const (
	Idle State = iota
	Hovered
	Active
)

// Marker is the visual state of one comment pin. Resolved mirrors the stored
// comment; RemoteHovered is presence-only, driven by realtime events from
// other sessions, and never affects the local State.
type Marker struct {
	CommentID     string
	State         State
	Resolved      bool
	RemoteHovered bool
}

// Item is the slice of a comment the overlay needs, in creation-time order.
type Item struct {
	ID       string
	Resolved bool
}

// Set holds all markers for one project, ordered by comment creation time
// ascending. The number shown inside a marker is its 1-based position in
// this order, recomputed on every render; it is never stored.
type Set struct {
	markers []*Marker
	byID    map[string]*Marker
}

func NewSet() *Set {
	return &Set{byID: map[string]*Marker{}}
}

// Sync rebuilds the marker list from the comment list, preserving the
// activation and hover state of markers that survive. Markers whose comment
// disappeared are dropped; a dropped active marker leaves nothing active.
func (s *Set) Sync(items []Item) {
	next := make([]*Marker, 0, len(items))
	nextByID := make(map[string]*Marker, len(items))
	for _, it := range items {
		m, ok := s.byID[it.ID]
		if !ok {
			m = &Marker{CommentID: it.ID}
		}
		m.Resolved = it.Resolved
		next = append(next, m)
		nextByID[it.ID] = m
	}
	s.markers = next
	s.byID = nextByID
}

// Activate makes the marker for id the single active one; every other marker
// drops back to idle. Activation is a rendering concern only and is never
// persisted. Returns false when id is unknown.
func (s *Set) Activate(id string) bool {
	target, ok := s.byID[id]
	if !ok {
		return false
	}
	for _, m := range s.markers {
		if m == target {
			m.State = Active
		} else if m.State == Active {
			m.State = Idle
		}
	}
	return true
}

// Deactivate returns every marker to idle.
func (s *Set) Deactivate() {
	for _, m := range s.markers {
		if m.State == Active {
			m.State = Idle
		}
	}
}

// Hover toggles local hover on the marker for id. It only moves markers
// between idle and hovered; an active marker stays active.
func (s *Set) Hover(id string, on bool) {
	m, ok := s.byID[id]
	if !ok || m.State == Active {
		return
	}
	if on {
		m.State = Hovered
	} else {
		m.State = Idle
	}
}

// SetRemoteHover flips the remote-hover visual flag. Visual only: the local
// activation state is untouched.
func (s *Set) SetRemoteHover(id string, on bool) {
	if m, ok := s.byID[id]; ok {
		m.RemoteHovered = on
	}
}

// Remove drops the marker for id, shifting later indices down by one.
func (s *Set) Remove(id string) {
	m, ok := s.byID[id]
	if !ok {
		return
	}
	delete(s.byID, id)
	for i, cur := range s.markers {
		if cur == m {
			s.markers = append(s.markers[:i], s.markers[i+1:]...)
			break
		}
	}
}

// Index returns the 1-based display index for id, or 0 when unknown.
// Positional: deleting an earlier comment renumbers everything after it.
func (s *Set) Index(id string) int {
	for i, m := range s.markers {
		if m.CommentID == id {
			return i + 1
		}
	}
	return 0
}

// ActiveID returns the id of the active marker, or "".
func (s *Set) ActiveID() string {
	for _, m := range s.markers {
		if m.State == Active {
			return m.CommentID
		}
	}
	return ""
}

// Markers returns the markers in display order.
func (s *Set) Markers() []*Marker {
	return s.markers
}

// Len reports the marker count.
func (s *Set) Len() int {
	return len(s.markers)
}
