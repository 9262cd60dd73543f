/*
Package placement computes where a fixed-size contextual menu should
appear relative to the message row that triggered it.

The computation is pure: identical inputs yield identical outputs, and
malformed geometry degrades to best-effort clamping rather than
panicking.
*/
package placement

import (
	"image"

	"gioui.org/layout"
)

// Default menu footprint in layout units.
var DefaultMenuSize = image.Pt(256, 120)

// DefaultMargin is the minimum distance kept between the menu and the
// container edges.
const DefaultMargin = 10

// Spec describes the geometry of a placement request. All rectangles
// share one coordinate space.
type Spec struct {
	// Target is the bounding box of the element the menu refers to.
	Target image.Rectangle
	// Container bounds the scrollable area the menu must stay within.
	Container image.Rectangle
	// Menu is the menu footprint. Zero means DefaultMenuSize.
	Menu image.Point
	// Margin between the menu and the container edges. Zero means
	// DefaultMargin.
	Margin int
}

// Position is the resolved placement of the menu.
type Position struct {
	// Offset is the top-left corner of the menu.
	Offset image.Point
	// Above reports that the menu was flipped above the target because
	// the space below it was insufficient.
	Above bool
	// ArrowOffset is the distance from the menu's left edge to the
	// point where the arrow should reference the target. It accounts
	// for horizontal clamping.
	ArrowOffset int
	// Origin hints where any entrance animation should grow from:
	// layout.N when shown below the target, layout.S when shown above,
	// so the menu reads as emerging from the target.
	Origin layout.Direction
}

// Resolve computes the menu position for the given spec.
func Resolve(spec Spec) Position {
	menu := spec.Menu
	if menu == (image.Point{}) {
		menu = DefaultMenuSize
	}
	margin := spec.Margin
	if margin == 0 {
		margin = DefaultMargin
	}

	var pos Position

	// Prefer below the target; flip above only when the space below
	// cannot fit the menu.
	below := spec.Container.Max.Y - spec.Target.Max.Y
	if below >= menu.Y {
		pos.Offset.Y = spec.Target.Max.Y
		pos.Origin = layout.N
	} else {
		pos.Above = true
		pos.Offset.Y = spec.Target.Min.Y - menu.Y
		pos.Origin = layout.S
	}

	// Center horizontally on the target midpoint, then clamp to the
	// container with the margin. The clamp bounds may invert on
	// degenerate containers; the low bound wins so the menu stays
	// anchored to the leading edge.
	mid := spec.Target.Min.X + spec.Target.Dx()/2
	left := mid - menu.X/2
	lo := spec.Container.Min.X + margin
	hi := spec.Container.Max.X - menu.X - margin
	if left > hi {
		left = hi
	}
	if left < lo {
		left = lo
	}
	pos.Offset.X = left

	// Recompute the arrow after clamping so it still references the
	// target midpoint, bounded to the menu itself.
	arrow := mid - left
	if arrow < 0 {
		arrow = 0
	}
	if arrow > menu.X {
		arrow = menu.X
	}
	pos.ArrowOffset = arrow

	return pos
}
