package store

import (
	"sync"

	"git.sr.ht/~rywen/msgactions/model"
)

// Memory is an in-memory store of messages and favorites, suitable for
// examples and tests. The zero value is ready to use.
type Memory struct {
	mu    sync.Mutex
	convs map[string][]model.Message
	faves []model.Favorite
}

// NewMemory constructs an empty Memory store.
func NewMemory() *Memory {
	return &Memory{convs: make(map[string][]model.Message)}
}

// Seed replaces the conversation's messages, backfilling missing IDs.
func (s *Memory) Seed(conversation string, msgs []model.Message) {
	model.BackfillIDs(msgs)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()
	s.convs[conversation] = dup(msgs)
}

// Load implements Messages.
func (s *Memory) Load(conversation string) ([]model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()
	return dup(s.convs[conversation]), nil
}

// Save implements Messages.
func (s *Memory) Save(conversation string, msgs []model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()
	s.convs[conversation] = dup(msgs)
	return nil
}

// Update implements Messages.
func (s *Memory) Update(conversation, id string, mutate func(*model.Message)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()
	msgs := s.convs[conversation]
	for i := range msgs {
		if msgs[i].ID == id {
			mutate(&msgs[i])
			return nil
		}
	}
	return ErrNotFound
}

// Add implements Favorites.
func (s *Memory) Add(fav model.Favorite) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.faves {
		if s.faves[i].MessageID == fav.MessageID {
			s.faves[i] = fav
			return nil
		}
	}
	s.faves = append(s.faves, fav)
	return nil
}

// DeleteByMessageID implements Favorites.
func (s *Memory) DeleteByMessageID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.faves {
		if s.faves[i].MessageID == id {
			s.faves = append(s.faves[:i], s.faves[i+1:]...)
			return nil
		}
	}
	return nil
}

// IsFavorited implements Favorites.
func (s *Memory) IsFavorited(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.faves {
		if s.faves[i].MessageID == id {
			return true, nil
		}
	}
	return false, nil
}

// List implements Favorites.
func (s *Memory) List() ([]model.Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Favorite, len(s.faves))
	copy(out, s.faves)
	return out, nil
}

func (s *Memory) init() {
	if s.convs == nil {
		s.convs = make(map[string][]model.Message)
	}
}

// dup copies the slice so callers never share backing memory with the
// store.
func dup(msgs []model.Message) []model.Message {
	out := make([]model.Message, len(msgs))
	copy(out, msgs)
	return out
}
