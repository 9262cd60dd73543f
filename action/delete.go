package action

import (
	"fmt"

	"git.sr.ht/~rywen/msgactions/model"
)

// delete removes the message from the persisted store, then from the
// view. The store write goes first: if it fails the view is left
// untouched. A view removal failure after a successful write is a
// tolerated, logged desync.
//
// Messages with an ID are matched exactly by it. ID-less legacy
// records fall back to the (time, sender, content) tuple, which
// removes every message sharing the tuple. That multi-match is a known
// legacy-data limitation; model.BackfillIDs at load time is the real
// fix. Favorite records referencing the message are deliberately left
// in place (product decision pending).
func (c *Controller) delete(msg model.Message) error {
	msgs, err := c.cfg.Messages.Load(c.cfg.Conversation)
	if err != nil {
		c.cfg.Log.Error().Err(err).Msg("load before delete failed")
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}

	kept := msgs[:0]
	if msg.ID != "" {
		for _, m := range msgs {
			if m.ID != msg.ID {
				kept = append(kept, m)
			}
		}
	} else {
		key := msg.Legacy(c.cfg.ResolveReaction)
		for _, m := range msgs {
			if m.Legacy(c.cfg.ResolveReaction) != key {
				kept = append(kept, m)
			}
		}
	}

	if err := c.cfg.Messages.Save(c.cfg.Conversation, kept); err != nil {
		c.cfg.Log.Error().Err(err).Str("message", msg.ID).Msg("delete write failed")
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}

	if err := c.cfg.View.Remove(msg); err != nil {
		c.cfg.Log.Warn().Err(err).Str("message", msg.ID).Msg("view removal failed after delete")
	}
	c.refreshPreview()
	c.cfg.Notifier.Notify(Success, "Message deleted")
	return nil
}
