package view

import (
	"testing"
	"time"

	"gioui.org/layout"

	"git.sr.ht/~rywen/msgactions/model"
)

var sentAt = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type rowState struct {
	id string
}

func newTestRoster(invalidations *int) *Roster {
	return NewRoster(Hooks{
		Presenter: func(msg model.Message, state interface{}) layout.Widget {
			return func(layout.Context) layout.Dimensions {
				return layout.Dimensions{}
			}
		},
		Allocator: func(msg model.Message) interface{} {
			return &rowState{id: msg.ID}
		},
		Invalidator: func() {
			if invalidations != nil {
				*invalidations++
			}
		},
	})
}

func text(id string, local bool, body string) model.Message {
	return model.Message{
		ID:      id,
		Local:   local,
		SentAt:  sentAt,
		Payload: model.TextPayload{Body: body},
	}
}

func TestRosterPopulate(t *testing.T) {
	var invalidations int
	r := newTestRoster(&invalidations)
	r.Populate([]model.Message{text("a", false, "one"), text("b", true, "two")})
	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}
	if invalidations != 1 {
		t.Errorf("invalidations = %d, want 1", invalidations)
	}
	if got := r.Row(1); got.ID != "b" {
		t.Errorf("Row(1).ID = %q, want b", got.ID)
	}
}

func TestRosterReplace(t *testing.T) {
	r := newTestRoster(nil)
	r.Populate([]model.Message{text("a", true, "original")})

	updated := text("a", true, "")
	updated.Payload = model.RecalledPayload{OriginalContent: "original", CanPeek: true}
	if err := r.Replace(updated); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if got := r.Row(0).Variant(); got != model.Recalled {
		t.Errorf("row variant = %v, want %v", got, model.Recalled)
	}

	if err := r.Replace(text("missing", true, "x")); err == nil {
		t.Errorf("replacing an absent row succeeded silently")
	}
}

func TestRosterRemoveByID(t *testing.T) {
	r := newTestRoster(nil)
	// Twins share the tuple but carry distinct IDs.
	r.Populate([]model.Message{text("a", true, "twin"), text("b", true, "twin")})
	if err := r.Remove(text("a", true, "twin")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
	if got := r.Row(0); got.ID != "b" {
		t.Errorf("remaining row = %q, want b", got.ID)
	}
}

func TestRosterRemoveLegacyTuple(t *testing.T) {
	r := newTestRoster(nil)
	twin := model.Message{Local: true, SentAt: sentAt, Payload: model.TextPayload{Body: "twin"}}
	other := text("keep", false, "other")
	r.Populate([]model.Message{twin, twin, other})

	if err := r.Remove(twin); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (tuple removal takes all matches)", r.Len())
	}
	if got := r.Row(0); got.ID != "keep" {
		t.Errorf("remaining row = %q, want keep", got.ID)
	}
}

func TestRosterRemoveMissing(t *testing.T) {
	r := newTestRoster(nil)
	r.Populate([]model.Message{text("a", true, "one")})
	if err := r.Remove(text("ghost", true, "boo")); err == nil {
		t.Errorf("removing an absent row succeeded silently")
	}
	if r.Len() != 1 {
		t.Errorf("failed removal still mutated the roster")
	}
}

func TestRosterLatest(t *testing.T) {
	r := newTestRoster(nil)
	if _, ok := r.Latest(); ok {
		t.Errorf("empty roster reported a latest message")
	}
	r.Populate([]model.Message{text("a", false, "one")})
	r.Append(text("b", true, "two"))
	latest, ok := r.Latest()
	if !ok || latest.ID != "b" {
		t.Errorf("Latest() = %+v, %v; want message b", latest, ok)
	}
}

func TestRosterStateLifecycle(t *testing.T) {
	r := newTestRoster(nil)
	r.Populate([]model.Message{text("a", true, "one"), text("b", false, "two")})

	// Layout allocates state on first use.
	gtx := layout.Context{}
	r.Layout(gtx, 0)
	r.Layout(gtx, 1)
	if len(r.state) != 2 {
		t.Fatalf("allocated states = %d, want 2", len(r.state))
	}

	// Removal drops the row's state.
	if err := r.Remove(text("a", true, "one")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := r.state["a"]; ok {
		t.Errorf("removed row's state retained")
	}

	// Repopulating without a row drops its state too.
	r.Populate([]model.Message{text("c", true, "three")})
	if _, ok := r.state["b"]; ok {
		t.Errorf("stale state survived repopulation")
	}
}

func TestRosterLayoutOutOfRange(t *testing.T) {
	r := newTestRoster(nil)
	if dims := r.Layout(layout.Context{}, 5); dims != (layout.Dimensions{}) {
		t.Errorf("out-of-range layout returned %+v", dims)
	}
}
