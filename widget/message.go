package widget

import (
	"gioui.org/widget"
	"gioui.org/x/richtext"
)

// Message holds the state necessary to facilitate user interactions
// with a message's content across frames.
type Message struct {
	richtext.InteractiveText
	// Clickable tracks clicks on the message image.
	widget.Clickable
	// Image contains the cached image op for a media message.
	Image CachedImage
	// Peek tracks clicks on a recalled message's peek affordance.
	Peek widget.Clickable
	// Peeking reports whether the sender is currently viewing the
	// pre-recall content.
	Peeking bool
}
