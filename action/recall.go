package action

import (
	"fmt"

	"git.sr.ht/~rywen/msgactions/model"
)

// recall retracts a local message within the recall window. The
// message transitions one-way to the Recalled variant, retaining a
// projection of its content so the sender may still peek at it.
func (c *Controller) recall(msg model.Message) error {
	if !msg.Local {
		return ErrNotOwnMessage
	}
	if msg.Variant() == model.Recalled {
		// The menu never offers recall here; reject defensively.
		return ErrUnsupportedVariant
	}
	if c.cfg.Now().Sub(msg.SentAt) > c.cfg.RecallWindow {
		return ErrRecallWindowExpired
	}

	snapshot := model.RecalledPayload{
		OriginalVariant: msg.Variant(),
		OriginalContent: msg.DisplayString(c.cfg.ResolveReaction),
		CanPeek:         true,
	}
	err := c.cfg.Messages.Update(c.cfg.Conversation, msg.ID, func(m *model.Message) {
		m.Payload = snapshot
	})
	if err != nil {
		c.cfg.Log.Error().Err(err).Str("message", msg.ID).Msg("recall write failed")
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}

	msg.Payload = snapshot
	if err := c.cfg.View.Replace(msg); err != nil {
		// Store and view are now out of sync. Accepted, but never
		// hidden.
		c.cfg.Log.Warn().Err(err).Str("message", msg.ID).Msg("view replace failed after recall")
	}
	c.refreshPreview()
	c.cfg.Notifier.Notify(Success, "Message recalled")
	return nil
}
