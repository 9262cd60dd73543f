/*
Package gesture recognizes the sustained press that opens a message's
action menu.

A press activates after it has been held for the configured duration
without drifting beyond the movement slop. Drifting presses and early
releases pass through silently, preserving scroll and drag gestures.
A secondary-button press activates immediately, matching desktop
right-click expectations.
*/
package gesture

import (
	"image"
	"time"

	"gioui.org/f32"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/unit"
)

// DefaultDuration is the hold threshold for activation.
const DefaultDuration = 500 * time.Millisecond

// DefaultSlop is the movement tolerance of a press. Movement beyond
// this distance on either axis cancels the pending activation.
const DefaultSlop = unit.Dp(10)

// Press describes a completed activation gesture.
type Press struct {
	// Position of the initial pointer press, relative to the watched
	// area.
	Position f32.Point
}

// LongPress detects long-press and right-click activation over the
// area it is laid out across. The zero value is ready to use.
type LongPress struct {
	// Duration overrides the hold threshold. Zero means
	// DefaultDuration.
	Duration time.Duration
	// Slop overrides the movement tolerance. Zero means DefaultSlop.
	Slop unit.Dp

	pressed   bool
	cancelled bool
	start     time.Time
	origin    f32.Point
	// activation holds at most one unconsumed activation. Each press
	// sequence fires at most once.
	activation *Press
}

// Activated reports and consumes a pending activation.
func (lp *LongPress) Activated() (Press, bool) {
	if lp.activation == nil {
		return Press{}, false
	}
	p := *lp.activation
	lp.activation = nil
	return p, true
}

// Layout processes pointer events and registers interest over an area
// of the provided dimensions. It is intended to be laid out as an
// expanded overlay of the watched widget.
func (lp *LongPress) Layout(gtx layout.Context) layout.Dimensions {
	slop := float32(gtx.Dp(lp.slop()))
	for _, ev := range gtx.Events(lp) {
		e, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		lp.update(gtx.Now, slop, e)
	}
	lp.tick(gtx.Now)
	if lp.pending() {
		// Wake the window when the hold threshold elapses, otherwise a
		// motionless press would never be observed firing.
		op.InvalidateOp{At: lp.start.Add(lp.duration())}.Add(gtx.Ops)
	}

	defer clip.Rect(image.Rectangle{Max: gtx.Constraints.Min}).Push(gtx.Ops).Pop()
	pointer.InputOp{
		Tag:   lp,
		Types: pointer.Press | pointer.Release | pointer.Drag | pointer.Cancel,
	}.Add(gtx.Ops)
	return layout.Dimensions{Size: gtx.Constraints.Min}
}

// update advances the state machine with a single pointer event.
func (lp *LongPress) update(now time.Time, slop float32, e pointer.Event) {
	switch e.Type {
	case pointer.Press:
		if e.Buttons.Contain(pointer.ButtonSecondary) {
			// Right-click opens the menu without waiting out the hold.
			lp.reset()
			lp.activation = &Press{Position: e.Position}
			return
		}
		if e.Source == pointer.Mouse && !e.Buttons.Contain(pointer.ButtonPrimary) {
			return
		}
		lp.pressed = true
		lp.cancelled = false
		lp.start = now
		lp.origin = e.Position
	case pointer.Drag:
		if !lp.pressed || lp.cancelled {
			return
		}
		if abs(e.Position.X-lp.origin.X) > slop || abs(e.Position.Y-lp.origin.Y) > slop {
			lp.cancelled = true
		}
	case pointer.Release, pointer.Cancel:
		lp.reset()
	}
}

// tick fires the activation once the hold threshold has elapsed.
func (lp *LongPress) tick(now time.Time) {
	if !lp.pending() {
		return
	}
	if now.Sub(lp.start) >= lp.duration() {
		lp.activation = &Press{Position: lp.origin}
		// The press stays down but must not fire again this sequence.
		lp.pressed = false
	}
}

// pending reports whether a press is held and may still activate.
func (lp *LongPress) pending() bool {
	return lp.pressed && !lp.cancelled && lp.activation == nil
}

func (lp *LongPress) reset() {
	lp.pressed = false
	lp.cancelled = false
}

func (lp *LongPress) duration() time.Duration {
	if lp.Duration == 0 {
		return DefaultDuration
	}
	return lp.Duration
}

func (lp *LongPress) slop() unit.Dp {
	if lp.Slop == 0 {
		return DefaultSlop
	}
	return lp.Slop
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
