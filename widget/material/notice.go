package material

import (
	"image/color"
	"sync"
	"time"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"git.sr.ht/~rywen/msgactions/action"
)

// DefaultNoticeDuration is how long a notice stays visible.
const DefaultNoticeDuration = 3 * time.Second

// NoticeState holds the transient feedback banner of a chat surface.
// Notify may be called from any goroutine; layout happens on the event
// loop.
type NoticeState struct {
	// Duration overrides DefaultNoticeDuration when nonzero.
	Duration time.Duration
	// Invalidator wakes the window so the notice appears without user
	// input. Required when notifying off the event loop.
	Invalidator func()

	mu       sync.Mutex
	text     string
	severity action.Severity
	until    time.Time
}

// Notify displays the message until the notice duration elapses,
// replacing any notice already showing. It implements action.Notifier.
func (s *NoticeState) Notify(sev action.Severity, text string) {
	s.mu.Lock()
	s.text = text
	s.severity = sev
	d := s.Duration
	if d == 0 {
		d = DefaultNoticeDuration
	}
	s.until = time.Now().Add(d)
	invalidate := s.Invalidator
	s.mu.Unlock()
	if invalidate != nil {
		invalidate()
	}
}

// current returns the active notice, or ok false once it has expired.
func (s *NoticeState) current() (text string, sev action.Severity, until time.Time, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.text == "" || time.Now().After(s.until) {
		return "", 0, time.Time{}, false
	}
	return s.text, s.severity, s.until, true
}

// NoticeStyle renders the active notice as a colored banner.
type NoticeStyle struct {
	State *NoticeState
	// Label presents the notice text.
	Label material.LabelStyle
	// Success, Warning and Error color the banner by severity.
	Success color.NRGBA
	Warning color.NRGBA
	Error   color.NRGBA
	// Inset pads the text within the banner.
	Inset layout.Inset
}

// Notice creates a NoticeStyle with sensible defaults.
func Notice(th *material.Theme, state *NoticeState) NoticeStyle {
	l := material.Body1(th, "")
	l.Color = th.ContrastFg
	return NoticeStyle{
		State:   state,
		Label:   l,
		Success: color.NRGBA{R: 0x2e, G: 0x7d, B: 0x32, A: 0xff},
		Warning: color.NRGBA{R: 0xf5, G: 0x7f, B: 0x17, A: 0xff},
		Error:   color.NRGBA{R: 0xc6, G: 0x28, B: 0x28, A: 0xff},
		Inset: layout.Inset{
			Top: unit.Dp(8), Bottom: unit.Dp(8),
			Left: unit.Dp(12), Right: unit.Dp(12),
		},
	}
}

// Layout displays the notice centered at the bottom of the constraint
// box, or nothing when no notice is active. It schedules a redraw for
// the expiry so the notice disappears on its own.
func (n NoticeStyle) Layout(gtx C) D {
	text, sev, until, ok := n.State.current()
	if !ok {
		return D{Size: gtx.Constraints.Min}
	}
	op.InvalidateOp{At: until}.Add(gtx.Ops)
	n.Label.Text = text
	bubble := BubbleStyle{
		CornerRadius: unit.Dp(6),
		Color:        n.severityColor(sev),
	}
	return layout.S.Layout(gtx, func(gtx C) D {
		return layout.UniformInset(unit.Dp(12)).Layout(gtx, func(gtx C) D {
			return bubble.Layout(gtx, func(gtx C) D {
				return n.Inset.Layout(gtx, n.Label.Layout)
			})
		})
	})
}

func (n NoticeStyle) severityColor(sev action.Severity) color.NRGBA {
	switch sev {
	case action.Warning:
		return n.Warning
	case action.Error:
		return n.Error
	default:
		return n.Success
	}
}
