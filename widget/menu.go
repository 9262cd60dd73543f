package widget

import (
	"image"

	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/unit"

	"git.sr.ht/~rywen/msgactions/gesture"
	"git.sr.ht/~rywen/msgactions/placement"
)

// MenuController owns the single open menu of a chat surface. At most
// one MenuArea is active per controller at any time: opening a new one
// dismisses the previous one first. Surfaces that must not share menu
// state use separate controllers.
type MenuController struct {
	// OnOpen, if set, is invoked when an area's menu opens, before the
	// menu is measured. Applications use it to rebuild the option list
	// for the newly targeted row.
	OnOpen func(*MenuArea)

	current *MenuArea
}

// Dismiss closes the open menu, if any.
func (mc *MenuController) Dismiss() {
	if mc.current != nil {
		mc.current.Dismiss()
		mc.current = nil
	}
}

// Active reports whether any menu is currently open.
func (mc *MenuController) Active() bool {
	return mc.current != nil && mc.current.Active()
}

func (mc *MenuController) open(a *MenuArea) {
	if mc.current != nil && mc.current != a {
		mc.current.Dismiss()
	}
	mc.current = a
	if mc.OnOpen != nil {
		mc.OnOpen(a)
	}
}

// MenuArea activates a contextual menu over the area it is laid out
// across. Activation comes from the embedded long-press detector
// (which also accepts right-click); dismissal comes from any press
// outside the menu, armed one frame after activation so the
// triggering event cannot close the menu it opened.
type MenuArea struct {
	// Controller enforces the one-open-menu rule. Required.
	Controller *MenuController
	// LongPress recognizes the activation gesture.
	LongPress gesture.LongPress
	// Viewport bounds the scrollable container in the area's own
	// coordinate space. Rows laid out inside a layout.List see an
	// unbounded main-axis constraint, so the host must set this each
	// frame for the flip-above rule to engage; see the actions example.
	// Zero falls back to the constraint box.
	Viewport image.Rectangle
	// Margin between the menu and the container edges. Zero means the
	// placement default.
	Margin unit.Dp

	active        bool
	justActivated bool
	position      placement.Position
	menuDims      image.Point
}

// Active reports whether this area's menu is open.
func (a *MenuArea) Active() bool {
	return a.active
}

// Dismiss closes this area's menu.
func (a *MenuArea) Dismiss() {
	a.active = false
	a.justActivated = false
}

// Placement returns the most recently resolved menu position, valid
// while the menu is active.
func (a *MenuArea) Placement() placement.Position {
	return a.position
}

// Layout watches the area for activation gestures and, while active,
// lays the menu out at its resolved position. It is intended to be
// laid out as an expanded overlay of the message row, in the manner of
// a context area.
func (a *MenuArea) Layout(gtx layout.Context, menu layout.Widget) layout.Dimensions {
	target := gtx.Constraints.Min
	suppress := a.justActivated
	a.justActivated = false

	if _, ok := a.LongPress.Activated(); ok {
		a.Controller.open(a)
		a.active = true
		a.justActivated = true
	}

	if a.active && !suppress {
		for _, ev := range gtx.Events(&a.active) {
			e, ok := ev.(pointer.Event)
			if !ok {
				continue
			}
			if e.Type != pointer.Press {
				continue
			}
			at := image.Pt(int(e.Position.X), int(e.Position.Y))
			if !at.In(a.menuRect()) {
				a.Dismiss()
			}
		}
	}

	a.LongPress.Layout(gtx)

	if !a.active {
		return layout.Dimensions{Size: target}
	}

	// Measure the menu, then resolve its position against the target
	// row and the available constraint box.
	macro := op.Record(gtx.Ops)
	menuGtx := gtx
	menuGtx.Constraints.Min = image.Point{}
	dims := menu(menuGtx)
	call := macro.Stop()
	a.menuDims = dims.Size

	container := a.Viewport
	if container == (image.Rectangle{}) {
		container = image.Rectangle{Max: gtx.Constraints.Max}
	}
	a.position = placement.Resolve(placement.Spec{
		Target:    image.Rectangle{Max: target},
		Container: container,
		Menu:      dims.Size,
		Margin:    a.margin(gtx),
	})

	// Catch presses anywhere for dismissal, letting them pass through
	// to the widgets beneath.
	defer pointer.PassOp{}.Push(gtx.Ops).Pop()
	pointer.InputOp{
		Tag:   &a.active,
		Types: pointer.Press,
		Grab:  true,
	}.Add(gtx.Ops)

	transform := op.Offset(a.position.Offset).Push(gtx.Ops)
	call.Add(gtx.Ops)
	transform.Pop()

	return layout.Dimensions{Size: target}
}

// menuRect bounds the laid-out menu in the area's coordinate space.
func (a *MenuArea) menuRect() image.Rectangle {
	return image.Rectangle{
		Min: a.position.Offset,
		Max: a.position.Offset.Add(a.menuDims),
	}
}

func (a *MenuArea) margin(gtx layout.Context) int {
	if a.Margin == 0 {
		return placement.DefaultMargin
	}
	return gtx.Dp(a.Margin)
}
