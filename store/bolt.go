package store

import (
	"bytes"
	"encoding/gob"
	"time"

	"go.etcd.io/bbolt"

	"git.sr.ht/~rywen/msgactions/model"
)

var (
	messagesBucket  = []byte("messages")
	favoritesBucket = []byte("favorites")
)

func init() {
	// The payload union round-trips through an interface field, which
	// gob handles once the concrete types are registered.
	gob.Register(model.TextPayload{})
	gob.Register(model.ReactionPayload{})
	gob.Register(model.MediaPayload{})
	gob.Register(model.QuotePayload{})
	gob.Register(model.TransferPayload{})
	gob.Register(model.RecalledPayload{})
}

// Bolt persists messages and favorites in a bbolt database. Messages
// are stored per conversation as a single gob-encoded slice, favorites
// keyed by message ID.
type Bolt struct {
	db *bbolt.DB
}

// OpenBolt opens (or creates) the database at path.
func OpenBolt(path string) (*Bolt, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(messagesBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(favoritesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Bolt{db: db}, nil
}

// Close releases the database.
func (s *Bolt) Close() error {
	return s.db.Close()
}

// Load implements Messages. Legacy records are backfilled with IDs on
// the way out, so every loaded message is addressable by ID.
func (s *Bolt) Load(conversation string) ([]model.Message, error) {
	var msgs []model.Message
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(messagesBucket).Get([]byte(conversation))
		if data == nil {
			return nil
		}
		return decode(data, &msgs)
	})
	if err != nil {
		return nil, err
	}
	model.BackfillIDs(msgs)
	return msgs, nil
}

// Save implements Messages.
func (s *Bolt) Save(conversation string, msgs []model.Message) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := encode(msgs)
		if err != nil {
			return err
		}
		return tx.Bucket(messagesBucket).Put([]byte(conversation), data)
	})
}

// Update implements Messages.
func (s *Bolt) Update(conversation, id string, mutate func(*model.Message)) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(messagesBucket)
		data := bucket.Get([]byte(conversation))
		if data == nil {
			return ErrNotFound
		}
		var msgs []model.Message
		if err := decode(data, &msgs); err != nil {
			return err
		}
		for i := range msgs {
			if msgs[i].ID == id {
				mutate(&msgs[i])
				out, err := encode(msgs)
				if err != nil {
					return err
				}
				return bucket.Put([]byte(conversation), out)
			}
		}
		return ErrNotFound
	})
}

// Add implements Favorites.
func (s *Bolt) Add(fav model.Favorite) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := encode(fav)
		if err != nil {
			return err
		}
		return tx.Bucket(favoritesBucket).Put([]byte(fav.MessageID), data)
	})
}

// DeleteByMessageID implements Favorites.
func (s *Bolt) DeleteByMessageID(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(favoritesBucket).Delete([]byte(id))
	})
}

// IsFavorited implements Favorites.
func (s *Bolt) IsFavorited(id string) (bool, error) {
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		found = tx.Bucket(favoritesBucket).Get([]byte(id)) != nil
		return nil
	})
	return found, err
}

// List implements Favorites. Order follows the bucket's key order.
func (s *Bolt) List() ([]model.Favorite, error) {
	var faves []model.Favorite
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(favoritesBucket).ForEach(func(k, v []byte) error {
			var fav model.Favorite
			if err := decode(v, &fav); err != nil {
				return err
			}
			faves = append(faves, fav)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return faves, nil
}

func encode(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
