/*
Package view maintains the laid-out message rows of a conversation and
keeps them synchronized with the message store through push
modifications.

The Roster is the view half of the delete/recall contract: the store
write always settles first, and the Roster then mirrors the change.
Unlike a pull-loading windowed list, the roster holds the whole
conversation; the store remains the source of truth.
*/
package view

import (
	"fmt"
	"sync"

	"gioui.org/layout"

	"git.sr.ht/~rywen/msgactions/model"
)

// Presenter transforms a message and its widget state into a widget to
// be laid out. It must not return nil.
type Presenter func(msg model.Message, state interface{}) layout.Widget

// Allocator instantiates the widget state for a message. It may return
// nil for rows that need no persistent state.
type Allocator func(msg model.Message) (state interface{})

// Hooks provides the lifecycle hooks a Roster needs.
type Hooks struct {
	Presenter
	Allocator
	// Invalidator triggers a new frame in the window displaying the
	// roster.
	Invalidator func()
	// Resolve recovers legacy reaction names for tuple matching. May
	// be nil.
	Resolve model.ReactionResolver
}

// Roster presents an ordered set of message rows and accepts push
// modifications from any goroutine.
type Roster struct {
	mu    sync.Mutex
	rows  []model.Message
	state map[string]interface{}

	presenter   Presenter
	allocator   Allocator
	invalidator func()
	resolve     model.ReactionResolver
}

// NewRoster constructs a Roster. This constructor will panic if any
// required hooks are not defined.
func NewRoster(hooks Hooks) *Roster {
	switch {
	case hooks.Presenter == nil:
		panic(fmt.Errorf("must provide an implementation of Presenter"))
	case hooks.Allocator == nil:
		panic(fmt.Errorf("must provide an implementation of Allocator"))
	case hooks.Invalidator == nil:
		panic(fmt.Errorf("must provide an implementation of Invalidator"))
	}
	return &Roster{
		presenter:   hooks.Presenter,
		allocator:   hooks.Allocator,
		invalidator: hooks.Invalidator,
		resolve:     hooks.Resolve,
		state:       make(map[string]interface{}),
	}
}

// Populate replaces the roster contents with the provided messages,
// dropping the widget state of rows that are no longer present.
func (r *Roster) Populate(msgs []model.Message) {
	r.mu.Lock()
	r.rows = append(r.rows[:0:0], msgs...)
	present := make(map[string]bool, len(msgs))
	for _, m := range msgs {
		present[m.ID] = true
	}
	for id := range r.state {
		if !present[id] {
			delete(r.state, id)
		}
	}
	r.mu.Unlock()
	r.invalidator()
}

// Append adds a message to the end of the roster.
func (r *Roster) Append(msg model.Message) {
	r.mu.Lock()
	r.rows = append(r.rows, msg)
	r.mu.Unlock()
	r.invalidator()
}

// Replace swaps the row with the message's ID for its updated form.
// Implements the action view contract.
func (r *Roster) Replace(msg model.Message) error {
	r.mu.Lock()
	defer r.unlockInvalidate()
	for i := range r.rows {
		if r.rows[i].ID == msg.ID && msg.ID != "" {
			r.rows[i] = msg
			return nil
		}
	}
	return fmt.Errorf("no row for message %q", msg.ID)
}

// Remove takes the message's row out of the roster. ID-less messages
// fall back to tuple matching and remove every matching row, mirroring
// the store's legacy delete semantics. Removing a missing row is an
// error so callers can log the degraded removal, but the roster is
// otherwise unchanged.
func (r *Roster) Remove(msg model.Message) error {
	r.mu.Lock()
	defer r.unlockInvalidate()
	removed := false
	kept := r.rows[:0]
	for _, m := range r.rows {
		if r.matches(m, msg) {
			removed = true
			delete(r.state, m.ID)
			continue
		}
		kept = append(kept, m)
	}
	r.rows = kept
	if !removed {
		return fmt.Errorf("no row for message %q", msg.ID)
	}
	return nil
}

func (r *Roster) matches(row, target model.Message) bool {
	if target.ID != "" {
		return row.ID == target.ID
	}
	return row.Legacy(r.resolve) == target.Legacy(r.resolve)
}

// Len returns the number of rows, for use as a layout.List length.
func (r *Roster) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// Latest returns the most recent message and whether one exists, as
// needed by conversation preview refreshes.
func (r *Roster) Latest() (model.Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.rows) == 0 {
		return model.Message{}, false
	}
	return r.rows[len(r.rows)-1], true
}

// Row returns the message at the given index.
func (r *Roster) Row(index int) model.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[index]
}

// Layout the row at the given index, allocating its widget state on
// first use.
func (r *Roster) Layout(gtx layout.Context, index int) layout.Dimensions {
	r.mu.Lock()
	if index < 0 || index >= len(r.rows) {
		r.mu.Unlock()
		return layout.Dimensions{}
	}
	msg := r.rows[index]
	state, ok := r.state[msg.ID]
	if !ok && msg.ID != "" {
		state = r.allocator(msg)
		r.state[msg.ID] = state
	}
	r.mu.Unlock()
	return r.presenter(msg, state)(gtx)
}

func (r *Roster) unlockInvalidate() {
	r.mu.Unlock()
	r.invalidator()
}
