package action

import (
	"fmt"

	"git.sr.ht/~rywen/msgactions/model"
)

// favoriteToggle creates the favorite record for the message, or
// removes it if one already exists. Two toggles in succession return
// the favorites store to its prior state.
func (c *Controller) favoriteToggle(msg model.Message) error {
	display, err := c.senderDisplay(msg)
	if err != nil {
		return err
	}

	favorited, err := c.cfg.Favorites.IsFavorited(msg.ID)
	if err != nil {
		c.cfg.Log.Error().Err(err).Str("message", msg.ID).Msg("favorite lookup failed")
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	if favorited {
		if err := c.cfg.Favorites.DeleteByMessageID(msg.ID); err != nil {
			c.cfg.Log.Error().Err(err).Str("message", msg.ID).Msg("unfavorite failed")
			return fmt.Errorf("%w: %v", ErrStoreWrite, err)
		}
		c.cfg.Notifier.Notify(Success, "Removed from favorites")
		return nil
	}

	fav := model.Favorite{
		MessageID:     msg.ID,
		Conversation:  c.cfg.Conversation,
		SenderDisplay: display,
		Variant:       msg.Variant(),
		Content:       msg.DisplayString(c.cfg.ResolveReaction),
		SentAt:        msg.SentAt,
	}
	if err := c.cfg.Favorites.Add(fav); err != nil {
		c.cfg.Log.Error().Err(err).Str("message", msg.ID).Msg("favorite write failed")
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	c.cfg.Notifier.Notify(Success, "Added to favorites")
	return nil
}

// senderDisplay resolves the display name snapshotted into a favorite.
// The local user is shown distinctly from the counterpart.
func (c *Controller) senderDisplay(msg model.Message) (string, error) {
	if c.cfg.Conversation == "" {
		return "", ErrTargetResolution
	}
	if msg.Local {
		return c.cfg.SelfDisplay, nil
	}
	if c.cfg.PeerDisplay == "" {
		return "", ErrTargetResolution
	}
	return c.cfg.PeerDisplay, nil
}
