package action

import (
	"fmt"

	"git.sr.ht/~rywen/msgactions/model"
)

// quote selects the message for a quoted reply and emits the
// quote-selection signal. No store mutation occurs here.
//
// Quoting a quote never chains: the reference flattens to a Text
// variant carrying only the target's embedded reply text.
func (c *Controller) quote(msg model.Message) error {
	if c.cfg.DisableQuote || c.cfg.OnQuote == nil {
		return fmt.Errorf("%s: %w", QuoteReply, ErrNotSupported)
	}

	variant := msg.Variant()
	switch variant {
	case model.Text, model.Reaction, model.Media, model.Quote:
	default:
		return fmt.Errorf("cannot quote a %s message: %w", variant, ErrUnsupportedVariant)
	}

	content := msg.DisplayString(c.cfg.ResolveReaction)
	if variant == model.Quote {
		variant = model.Text
	}

	display := c.cfg.PeerDisplay
	if msg.Local {
		display = c.cfg.SelfDisplay
	}
	c.cfg.OnQuote(QuoteRef{
		MessageID:     msg.ID,
		SenderDisplay: display,
		Variant:       variant,
		Content:       content,
	})
	return nil
}
