package material

import (
	"image"
	"image/color"

	"gioui.org/layout"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/richtext"

	"git.sr.ht/~rywen/msgactions/model"
	chatwidget "git.sr.ht/~rywen/msgactions/widget"
)

// Note: the values choosen are a best-guess heuristic, open to change.
var (
	DefaultMaxImageHeight  = unit.Dp(400)
	DefaultMaxMessageWidth = unit.Dp(600)
	DefaultDangerColor     = color.NRGBA{R: 200, A: 255}
	// DefaultTransferColor backs the card of a monetary transfer.
	DefaultTransferColor = color.NRGBA{R: 247, G: 181, B: 0, A: 255}
	// DefaultEchoColor is the dimmed text of an embedded quote echo.
	DefaultEchoColor = color.NRGBA{R: 120, G: 120, B: 120, A: 255}
)

type (
	C = layout.Context
	D = layout.Dimensions
)

// RecalledNotice is displayed in place of a recalled message's
// content.
const RecalledNotice = "Message recalled"

// MessageStyle configures the presentation of one message's content
// according to its variant.
type MessageStyle struct {
	// Interaction holds the stateful parts of this message.
	Interaction *chatwidget.Message
	// Variant selects which of the content fields below are laid out.
	Variant model.Variant
	// MaxMessageWidth constrains the display width of the message's
	// background.
	MaxMessageWidth unit.Dp
	// MaxImageHeight constrains the height of a media message's image.
	MaxImageHeight unit.Dp
	// ContentPadding separates the content from the edges of the
	// background.
	ContentPadding layout.Inset
	// BubbleStyle configures the chat bubble beneath the message.
	BubbleStyle
	// Content is the styled text of the message: the body, caption,
	// reaction name, reply text or recall notice, per variant.
	Content richtext.TextStyle
	// Echo is the embedded quoted text of a quote message.
	Echo material.LabelStyle
	// Amount is the headline figure of a transfer message.
	Amount material.LabelStyle
	// TransferCaption labels the transfer card.
	TransferCaption material.LabelStyle
	// Image is the image content of a media message.
	Image Image
	// CanPeek enables the recalled message's peek affordance.
	CanPeek bool
	// PeekButton toggles the display of the pre-recall content.
	PeekButton material.ButtonStyle
	// Original is the pre-recall content, shown while peeking.
	Original material.LabelStyle
}

// Message constructs a MessageStyle for the message's active variant.
// The resolver may be nil; it is only consulted for legacy reactions.
func Message(th *material.Theme, interact *chatwidget.Message, msg model.Message, img image.Image, resolve model.ReactionResolver) MessageStyle {
	l := material.Body1(th, "")
	ms := MessageStyle{
		BubbleStyle:     Bubble(th),
		Variant:         msg.Variant(),
		ContentPadding:  layout.UniformInset(unit.Dp(8)),
		MaxMessageWidth: DefaultMaxMessageWidth,
		MaxImageHeight:  DefaultMaxImageHeight,
		Interaction:     interact,
	}
	span := richtext.SpanStyle{
		Font:  l.Font,
		Size:  l.TextSize,
		Color: th.Fg,
	}
	switch p := msg.Payload.(type) {
	case model.TextPayload:
		span.Content = p.Body
	case model.ReactionPayload:
		span.Content = msg.DisplayString(resolve)
		span.Size = l.TextSize * 2
	case model.MediaPayload:
		interact.Image.Cache(img)
		span.Content = p.Caption
		ms.Image = Image{
			Image: widget.Image{
				Src:      interact.Image.Op(),
				Fit:      widget.ScaleDown,
				Position: layout.Center,
			},
			Radii: unit.Dp(8),
		}
	case model.QuotePayload:
		span.Content = p.Reply
		ms.Echo = material.Body2(th, p.Echo)
		ms.Echo.Color = DefaultEchoColor
	case model.TransferPayload:
		ms.Amount = material.H6(th, "¤"+p.Amount)
		ms.TransferCaption = material.Body2(th, "Transfer")
		ms.BubbleStyle.Color = DefaultTransferColor
	case model.RecalledPayload:
		span.Content = RecalledNotice
		span.Font.Style = text.Italic
		span.Color = DefaultEchoColor
		ms.CanPeek = p.CanPeek
		ms.PeekButton = material.Button(th, &interact.Peek, "Peek")
		ms.PeekButton.Inset = layout.UniformInset(unit.Dp(4))
		ms.PeekButton.TextSize = ms.PeekButton.TextSize * 3 / 4
		ms.Original = material.Body2(th, p.OriginalContent)
	}
	ms.Content = richtext.Text(&interact.InteractiveText, th.Shaper, span)
	return ms
}

// Layout the message content atop its background.
func (m MessageStyle) Layout(gtx C) D {
	gtx.Constraints.Max.X = int(float32(gtx.Constraints.Max.X) * 0.8)
	if max := gtx.Dp(m.MaxMessageWidth); gtx.Constraints.Max.X > max {
		gtx.Constraints.Max.X = max
	}
	switch m.Variant {
	case model.Media:
		return m.layoutMedia(gtx)
	case model.Quote:
		return m.layoutQuote(gtx)
	case model.Transfer:
		return m.layoutTransfer(gtx)
	case model.Recalled:
		return m.layoutRecalled(gtx)
	default:
		// Text and reactions are plain content in a bubble.
		return m.layoutBubble(gtx, m.Content.Layout)
	}
}

func (m MessageStyle) layoutBubble(gtx C, w layout.Widget) D {
	return m.BubbleStyle.Layout(gtx, func(gtx C) D {
		return m.ContentPadding.Layout(gtx, w)
	})
}

func (m MessageStyle) layoutMedia(gtx C) D {
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Max.Y = gtx.Dp(m.MaxImageHeight)
			return material.Clickable(gtx, &m.Interaction.Clickable, m.Image.Layout)
		}),
		layout.Rigid(func(gtx C) D {
			if len(m.Content.Styles) == 0 || m.Content.Styles[0].Content == "" {
				return D{}
			}
			return m.layoutBubble(gtx, m.Content.Layout)
		}),
	)
}

func (m MessageStyle) layoutQuote(gtx C) D {
	return m.layoutBubble(gtx, func(gtx C) D {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(m.Echo.Layout),
			layout.Rigid(layout.Spacer{Height: unit.Dp(4)}.Layout),
			layout.Rigid(m.Content.Layout),
		)
	})
}

func (m MessageStyle) layoutTransfer(gtx C) D {
	return m.layoutBubble(gtx, func(gtx C) D {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(m.Amount.Layout),
			layout.Rigid(m.TransferCaption.Layout),
		)
	})
}

// layoutRecalled lays out the recall notice, and for the sender the
// peek affordance that toggles the snapshot of the original content.
func (m MessageStyle) layoutRecalled(gtx C) D {
	if m.Interaction.Peek.Clicked() {
		m.Interaction.Peeking = !m.Interaction.Peeking
	}
	return m.layoutBubble(gtx, func(gtx C) D {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(m.Content.Layout),
			layout.Rigid(func(gtx C) D {
				if !m.CanPeek {
					return D{}
				}
				return m.PeekButton.Layout(gtx)
			}),
			layout.Rigid(func(gtx C) D {
				if !m.CanPeek || !m.Interaction.Peeking {
					return D{}
				}
				return m.Original.Layout(gtx)
			}),
		)
	})
}
