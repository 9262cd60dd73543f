/*
Package store defines the persistence contracts consumed by the message
action operations, along with in-memory and bbolt-backed
implementations.

Message slices are chronological; implementations and callers never
reorder them.
*/
package store

import (
	"errors"

	"git.sr.ht/~rywen/msgactions/model"
)

// ErrNotFound is returned when a conversation or message cannot be
// located.
var ErrNotFound = errors.New("store: not found")

// Messages reads and writes the ordered message list of a conversation.
type Messages interface {
	// Load returns the messages of the conversation in chronological
	// order. Unknown conversations load as empty, not as an error.
	Load(conversation string) ([]model.Message, error)
	// Save replaces the conversation's message list.
	Save(conversation string, msgs []model.Message) error
	// Update applies mutate to the message with the given ID and
	// persists the result. Returns ErrNotFound if no such message
	// exists.
	Update(conversation, id string, mutate func(*model.Message)) error
}

// Favorites manages the derived favorite records. At most one record
// exists per message ID.
type Favorites interface {
	// Add stores the favorite, replacing any record with the same
	// message ID.
	Add(fav model.Favorite) error
	// DeleteByMessageID removes the favorite for the message, if any.
	DeleteByMessageID(id string) error
	// IsFavorited reports whether a favorite exists for the message.
	IsFavorited(id string) (bool, error)
	// List returns all favorites in insertion order.
	List() ([]model.Favorite, error)
}
