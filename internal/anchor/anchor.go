// Package anchor converts click positions on a live page into durable
// (selector, relative-offset) anchors and re-projects them back to document
// coordinates after reflow. The same algorithm runs in the injected overlay
// script; this package is the reference implementation, kept browser-free
// behind the Document/Element abstraction so it can be tested directly.
package anchor

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("anchor: no element matches selector")

// Box is an element's bounding box relative to the full document.
type Box struct {
	Left, Top, Width, Height float64
}

// Point is a resolved pin position in document pixels.
type Point struct {
	Left, Top float64
}

// Element is the minimal DOM surface the resolver needs.
type Element interface {
	TagName() string
	ID() string
	// Parent returns the parent element, or nil at the document root.
	Parent() Element
	// NthOfType is the 1-based position among same-tag siblings.
	NthOfType() int
	BoundingBox() Box
}

// Document is the minimal document surface the resolver needs.
type Document interface {
	// QuerySelector returns the first match for a selector produced by
	// SelectorFor, or nil.
	QuerySelector(selector string) Element
	// ScrollSize returns the document's full scroll dimensions.
	ScrollSize() (width, height float64)
}

// Anchor locates a pin independent of viewport size: X and Y are percentages
// (0-100) into the box of the element matched by Selector.
type Anchor struct {
	Selector string  `json:"selector"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// IsLegacy reports whether the anchor predates element anchoring. Legacy
// records interpret X/Y against the document scroll size instead of an
// element box.
func (a Anchor) IsLegacy() bool {
	return a.Selector == "" || a.Selector == "body"
}

// SelectorFor builds a CSS path for el, root-to-leaf, joined by " > ". The
// walk stops early at the nearest ancestor carrying an id ("tag#id");
// otherwise each level contributes "tag" or "tag:nth-of-type(n)".
func SelectorFor(el Element) string {
	var path []string
	for el != nil {
		seg := strings.ToLower(el.TagName())
		if id := el.ID(); id != "" {
			path = append([]string{seg + "#" + id}, path...)
			break
		}
		if n := el.NthOfType(); n > 1 {
			seg = fmt.Sprintf("%s:nth-of-type(%d)", seg, n)
		}
		path = append([]string{seg}, path...)
		el = el.Parent()
	}
	return strings.Join(path, " > ")
}

// Capture converts a click at document coordinates (clickX, clickY) on el
// into an Anchor. ok is false when the element has a zero-size box, in which
// case the click cannot be expressed as a percentage and the caller must
// skip the element.
func Capture(el Element, clickX, clickY float64) (a Anchor, ok bool) {
	box := el.BoundingBox()
	if box.Width == 0 || box.Height == 0 {
		return Anchor{}, false
	}
	return Anchor{
		Selector: SelectorFor(el),
		X:        (clickX - box.Left) / box.Width * 100,
		Y:        (clickY - box.Top) / box.Height * 100,
	}, true
}

// Resolve re-projects a to document pixels against the current layout.
// Returns ErrNotFound when the selector no longer matches anything; the
// caller hides the pin and logs, never surfaces an error to the user.
// Geometry is read fresh on every call; boxes must not be cached across
// reflows.
func Resolve(doc Document, a Anchor) (Point, error) {
	if a.IsLegacy() {
		w, h := doc.ScrollSize()
		return Point{Left: a.X / 100 * w, Top: a.Y / 100 * h}, nil
	}
	el := doc.QuerySelector(a.Selector)
	if el == nil {
		return Point{}, fmt.Errorf("%w: %s", ErrNotFound, a.Selector)
	}
	box := el.BoundingBox()
	return Point{
		Left: box.Left + a.X/100*box.Width,
		Top:  box.Top + a.Y/100*box.Height,
	}, nil
}
