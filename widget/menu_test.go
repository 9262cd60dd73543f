package widget

import (
	"image"
	"testing"
	"time"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/unit"
)

var t0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// eventQueue feeds canned events to tags, standing in for the window's
// router.
type eventQueue map[event.Tag][]event.Event

func (q eventQueue) Events(t event.Tag) []event.Event { return q[t] }

// rowConstraints sizes the watched row at 100x40 inside a 360x640
// container.
var rowConstraints = layout.Constraints{
	Min: image.Pt(100, 40),
	Max: image.Pt(360, 640),
}

func testContext(q eventQueue, c layout.Constraints, now time.Time) layout.Context {
	return layout.Context{
		Ops:         new(op.Ops),
		Metric:      unit.Metric{PxPerDp: 1, PxPerSp: 1},
		Constraints: c,
		Queue:       q,
		Now:         now,
	}
}

func fixedMenu(size image.Point) layout.Widget {
	return func(layout.Context) layout.Dimensions {
		return layout.Dimensions{Size: size}
	}
}

func rightClick() pointer.Event {
	return pointer.Event{
		Type:     pointer.Press,
		Source:   pointer.Mouse,
		Buttons:  pointer.ButtonSecondary,
		Position: f32.Pt(5, 5),
	}
}

func press(at f32.Point) pointer.Event {
	return pointer.Event{
		Type:     pointer.Press,
		Source:   pointer.Mouse,
		Buttons:  pointer.ButtonPrimary,
		Position: at,
	}
}

// openMenu activates the area's menu: one frame delivering the
// right-click, one frame consuming the resulting activation.
func openMenu(t *testing.T, a *MenuArea, c layout.Constraints, menu layout.Widget) {
	t.Helper()
	q := eventQueue{&a.LongPress: {rightClick()}}
	a.Layout(testContext(q, c, t0), menu)
	a.Layout(testContext(eventQueue{}, c, t0.Add(16*time.Millisecond)), menu)
	if !a.Active() {
		t.Fatalf("menu did not open after right-click")
	}
}

func TestMenuControllerSingleInstance(t *testing.T) {
	var (
		mc     MenuController
		opened []*MenuArea
	)
	mc.OnOpen = func(a *MenuArea) {
		opened = append(opened, a)
	}
	a := &MenuArea{Controller: &mc}
	b := &MenuArea{Controller: &mc}
	menu := fixedMenu(image.Pt(60, 30))

	openMenu(t, a, rowConstraints, menu)
	if !mc.Active() {
		t.Fatalf("controller inactive with an open menu")
	}

	// Opening a second area closes the first one before the new menu
	// shows.
	openMenu(t, b, rowConstraints, menu)
	if a.Active() {
		t.Errorf("first menu still open after a second one opened")
	}
	if !b.Active() || !mc.Active() {
		t.Errorf("second menu not open")
	}

	if len(opened) != 2 || opened[0] != a || opened[1] != b {
		t.Errorf("OnOpen saw %v, want [a b]", opened)
	}

	mc.Dismiss()
	if b.Active() || mc.Active() {
		t.Errorf("controller dismissal left a menu open")
	}
}

func TestMenuAreaDismissArming(t *testing.T) {
	var mc MenuController
	a := &MenuArea{Controller: &mc}
	menu := fixedMenu(image.Pt(60, 30))
	openMenu(t, a, rowConstraints, menu)

	// The first frame after activation ignores presses, so the
	// triggering event cannot close the menu it opened.
	q := eventQueue{&a.active: {press(f32.Pt(300, 300))}}
	a.Layout(testContext(q, rowConstraints, t0.Add(32*time.Millisecond)), menu)
	if !a.Active() {
		t.Fatalf("press dismissed the menu before dismissal was armed")
	}

	// Once armed, an outside press dismisses.
	q = eventQueue{&a.active: {press(f32.Pt(300, 300))}}
	a.Layout(testContext(q, rowConstraints, t0.Add(48*time.Millisecond)), menu)
	if a.Active() {
		t.Errorf("outside press did not dismiss the armed menu")
	}
}

func TestMenuAreaPressInsideKeepsOpen(t *testing.T) {
	var mc MenuController
	a := &MenuArea{Controller: &mc}
	menu := fixedMenu(image.Pt(60, 30))
	openMenu(t, a, rowConstraints, menu)

	// Arm dismissal with an empty frame.
	a.Layout(testContext(eventQueue{}, rowConstraints, t0.Add(32*time.Millisecond)), menu)

	// The menu sits below the row at its resolved offset; a press on
	// it must not dismiss.
	at := f32.Pt(float32(a.Placement().Offset.X+5), float32(a.Placement().Offset.Y+5))
	q := eventQueue{&a.active: {press(at)}}
	a.Layout(testContext(q, rowConstraints, t0.Add(48*time.Millisecond)), menu)
	if !a.Active() {
		t.Errorf("press on the menu dismissed it")
	}
}

func TestMenuAreaViewportFlip(t *testing.T) {
	var mc MenuController
	a := &MenuArea{Controller: &mc}
	menu := fixedMenu(image.Pt(60, 30))

	// Inside a scrolling list the main-axis constraint is effectively
	// unbounded, so the constraint box alone can never trigger a flip.
	unbounded := layout.Constraints{
		Min: image.Pt(100, 40),
		Max: image.Pt(360, 1e6),
	}
	openMenu(t, a, unbounded, menu)
	if a.Placement().Above {
		t.Fatalf("unbounded constraints flipped the menu")
	}
	a.Dismiss()

	// With the viewport set by the host, a row near the bottom of the
	// visible area has only 20px below it and the menu flips above.
	a.Viewport = image.Rect(0, -500, 360, 60)
	openMenu(t, a, unbounded, menu)
	pos := a.Placement()
	if !pos.Above {
		t.Fatalf("menu did not flip above a bottom-of-viewport row")
	}
	if want := -30; pos.Offset.Y != want {
		t.Errorf("flipped offset = %d, want %d", pos.Offset.Y, want)
	}
}

func TestMenuAreaInactiveFootprint(t *testing.T) {
	var mc MenuController
	a := &MenuArea{Controller: &mc}
	menu := fixedMenu(image.Pt(60, 30))
	dims := a.Layout(testContext(eventQueue{}, rowConstraints, t0), menu)
	if dims.Size != rowConstraints.Min {
		t.Errorf("inactive area dims = %v, want the watched size %v", dims.Size, rowConstraints.Min)
	}
	if a.Active() {
		t.Errorf("area active without a gesture")
	}
}
