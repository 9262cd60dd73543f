package layout

import (
	"image/color"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/x/component"
)

// Background fills the space behind a widget with a solid color, as
// used by the surface bars around the message list.
type Background color.NRGBA

// Layout the widget atop the fill. The fill takes the widget's
// dimensions, so size the constraints before calling when a full-width
// bar is wanted.
func (bg Background) Layout(gtx C, w layout.Widget) D {
	macro := op.Record(gtx.Ops)
	dims := w(gtx)
	call := macro.Stop()
	component.Rect{
		Size:  dims.Size,
		Color: color.NRGBA(bg),
	}.Layout(gtx)
	call.Add(gtx.Ops)
	return dims
}
