package layout

import (
	"gioui.org/layout"
	"gioui.org/unit"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

// VerticalMarginStyle insets a widget equally on its top and bottom
// edges. Wrapping every chat row in one keeps rows evenly spaced.
type VerticalMarginStyle struct {
	Size unit.Dp
}

// VerticalMargin configures a vertical margin with a sensible default.
func VerticalMargin() VerticalMarginStyle {
	return VerticalMarginStyle{Size: unit.Dp(4)}
}

// Layout the provided widget within the margin.
func (v VerticalMarginStyle) Layout(gtx C, w layout.Widget) D {
	return layout.Inset{
		Top:    v.Size,
		Bottom: v.Size,
	}.Layout(gtx, w)
}

// Row lays out a central widget with gutters either side. The central
// widget can be arbitrarily aligned and gutters can have supplementary
// widgets stacked atop them.
type Row struct {
	// Margin between rows.
	Margin VerticalMarginStyle
	// Padding around the central widget.
	Padding VerticalMarginStyle
	// Gutter handles the left-right gutters of the row.
	Gutter GutterStyle
	// Direction of widgets within this row. Non-local rows align W,
	// local rows align E.
	Direction layout.Direction
}

// RowChild specifies a content widget and two gutter widgets either
// side.
type RowChild struct {
	Left    layout.Widget
	Content layout.Widget
	Right   layout.Widget
}

// FullRow returns a RowChild with optional gutter widgets either side.
func FullRow(l, w, r layout.Widget) RowChild {
	return RowChild{Left: l, Content: w, Right: r}
}

// ContentRow returns a RowChild with no gutter widgets.
func ContentRow(w layout.Widget) RowChild {
	return RowChild{Content: w}
}

// Layout the Row with any number of internal rows.
func (r *Row) Layout(gtx C, w ...RowChild) D {
	if r.Margin == (VerticalMarginStyle{}) {
		r.Margin = VerticalMargin()
	}
	if r.Padding == (VerticalMarginStyle{}) {
		r.Padding = VerticalMargin()
	}
	fl := make([]layout.FlexChild, len(w))
	for ii := range w {
		ii := ii
		fl[ii] = layout.Rigid(func(gtx C) D {
			return r.Gutter.Layout(gtx,
				w[ii].Left,
				func(gtx C) D {
					return r.Direction.Layout(gtx, func(gtx C) D {
						return r.Padding.Layout(gtx, func(gtx C) D {
							if w[ii].Content == nil {
								return D{}
							}
							return w[ii].Content(gtx)
						})
					})
				},
				w[ii].Right,
			)
		})
	}
	return r.Margin.Layout(gtx, func(gtx C) D {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx, fl...)
	})
}
