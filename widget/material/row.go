package material

import (
	"image"

	"gioui.org/layout"
	"gioui.org/widget/material"
	"gioui.org/x/component"

	chatlayout "git.sr.ht/~rywen/msgactions/layout"
	"git.sr.ht/~rywen/msgactions/model"
	chatwidget "git.sr.ht/~rywen/msgactions/widget"
)

// RowConfig describes the aspects of a chat message relevant for
// displaying it within a widget.
type RowConfig struct {
	// Sender is the display name shown above the message.
	Sender string
	// Message is the record to present.
	Message model.Message
	// Image is the decoded media content, nil for other variants.
	Image image.Image
	// Resolve recovers legacy reaction names. May be nil.
	Resolve model.ReactionResolver
}

// RowStyle configures the presentation of a chat message within a
// vertical list of chat messages, including its action menu overlay.
type RowStyle struct {
	chatlayout.Row
	// Local indicates that the message was sent by the local user,
	// and should be right-aligned.
	Local bool
	// Time is the timestamp associated with the message.
	Time material.LabelStyle
	// Sender displays the sender's name.
	Sender material.LabelStyle
	// MessageStyle configures how the content and its background are
	// presented.
	MessageStyle
	// Interaction holds the interactive state of this message.
	Interaction *chatwidget.Row
	// Menu configures the long-press/right-click action menu for this
	// message.
	Menu component.MenuStyle
}

// NewRow creates a style type that can lay out the data for a message.
func NewRow(th *material.Theme, interact *chatwidget.Row, menu *ActionMenuState, cfg RowConfig) RowStyle {
	if interact == nil {
		interact = &chatwidget.Row{}
	}
	if menu == nil {
		menu = &ActionMenuState{}
	}
	rs := RowStyle{
		Row: chatlayout.Row{
			Margin:    chatlayout.VerticalMargin(),
			Padding:   chatlayout.VerticalMargin(),
			Gutter:    chatlayout.Gutter(),
			Direction: layout.W,
		},
		Time:         material.Body2(th, cfg.Message.SentAt.Local().Format("15:04")),
		Sender:       material.Body1(th, cfg.Sender),
		Local:        cfg.Message.Local,
		Interaction:  interact,
		Menu:         ActionMenu(th, menu),
		MessageStyle: Message(th, &interact.Message, cfg.Message, cfg.Image, cfg.Resolve),
	}
	if rs.Local {
		rs.Row.Direction = layout.E
	}
	return rs
}

// Layout the message row.
func (c RowStyle) Layout(gtx C) D {
	return c.Row.Layout(gtx,
		chatlayout.ContentRow(c.Sender.Layout),
		chatlayout.FullRow(nil, c.layoutBubble, c.layoutTime),
	)
}

// layoutBubble lays out the message content with the action menu area
// expanded over it.
func (c RowStyle) layoutBubble(gtx C) D {
	return layout.Stack{}.Layout(gtx,
		layout.Stacked(func(gtx C) D {
			return c.MessageStyle.Layout(gtx)
		}),
		layout.Expanded(func(gtx C) D {
			return c.Interaction.Menu.Layout(gtx, func(gtx C) D {
				gtx.Constraints.Min = image.Point{}
				return c.Menu.Layout(gtx)
			})
		}),
	)
}

// layoutTime lays out the time the message was sent.
func (c RowStyle) layoutTime(gtx C) D {
	return layout.Center.Layout(gtx, c.Time.Layout)
}
