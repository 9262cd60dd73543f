package action

import (
	"errors"
	"testing"
	"time"

	"git.sr.ht/~rywen/msgactions/model"
	"git.sr.ht/~rywen/msgactions/store"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

const conv = "conv"

// flakyMessages wraps the memory store with injectable failures.
type flakyMessages struct {
	*store.Memory
	failLoad   bool
	failSave   bool
	failUpdate bool
}

var errInjected = errors.New("injected failure")

func (f *flakyMessages) Load(conversation string) ([]model.Message, error) {
	if f.failLoad {
		return nil, errInjected
	}
	return f.Memory.Load(conversation)
}

func (f *flakyMessages) Save(conversation string, msgs []model.Message) error {
	if f.failSave {
		return errInjected
	}
	return f.Memory.Save(conversation, msgs)
}

func (f *flakyMessages) Update(conversation, id string, mutate func(*model.Message)) error {
	if f.failUpdate {
		return errInjected
	}
	return f.Memory.Update(conversation, id, mutate)
}

type fakeView struct {
	replaced   []model.Message
	removed    []model.Message
	replaceErr error
	removeErr  error
}

func (v *fakeView) Replace(msg model.Message) error {
	if v.replaceErr != nil {
		return v.replaceErr
	}
	v.replaced = append(v.replaced, msg)
	return nil
}

func (v *fakeView) Remove(msg model.Message) error {
	if v.removeErr != nil {
		return v.removeErr
	}
	v.removed = append(v.removed, msg)
	return nil
}

type notice struct {
	sev  Severity
	text string
}

type noticeLog struct {
	entries []notice
}

func (n *noticeLog) Notify(sev Severity, text string) {
	n.entries = append(n.entries, notice{sev: sev, text: text})
}

func (n *noticeLog) last(t *testing.T) notice {
	t.Helper()
	if len(n.entries) == 0 {
		t.Fatalf("no notice recorded")
	}
	return n.entries[len(n.entries)-1]
}

type fixture struct {
	msgs     *flakyMessages
	view     *fakeView
	notices  *noticeLog
	quotes   []QuoteRef
	previews int
	ctl      *Controller
}

// newFixture assembles a controller over a seeded store. modify, if
// non-nil, adjusts the config before construction.
func newFixture(t *testing.T, seed []model.Message, modify func(*Config)) *fixture {
	t.Helper()
	mem := store.NewMemory()
	mem.Seed(conv, seed)
	f := &fixture{
		msgs:    &flakyMessages{Memory: mem},
		view:    &fakeView{},
		notices: &noticeLog{},
	}
	cfg := Config{
		Conversation: conv,
		Messages:     f.msgs,
		Favorites:    f.msgs.Memory,
		View:         f.view,
		Notifier:     f.notices,
		RefreshPreview: func(string) {
			f.previews++
		},
		OnQuote: func(ref QuoteRef) {
			f.quotes = append(f.quotes, ref)
		},
		PeerDisplay: "Ada",
		Now:         func() time.Time { return now },
	}
	if modify != nil {
		modify(&cfg)
	}
	f.ctl = NewController(cfg)
	return f
}

func (f *fixture) stored(t *testing.T) []model.Message {
	t.Helper()
	msgs, err := f.msgs.Memory.Load(conv)
	if err != nil {
		t.Fatalf("loading store: %v", err)
	}
	return msgs
}

func textMsg(id string, local bool, age time.Duration, body string) model.Message {
	return model.Message{
		ID:      id,
		Local:   local,
		SentAt:  now.Add(-age),
		Payload: model.TextPayload{Body: body},
	}
}

func TestRecall(t *testing.T) {
	msg := textMsg("m1", true, 30*time.Second, "take it back")
	f := newFixture(t, []model.Message{msg}, nil)

	if err := f.ctl.Do(Recall, msg); err != nil {
		t.Fatalf("recall failed: %v", err)
	}

	got := f.stored(t)[0]
	p, ok := got.Payload.(model.RecalledPayload)
	if !ok {
		t.Fatalf("stored payload = %T, want RecalledPayload", got.Payload)
	}
	if p.OriginalVariant != model.Text || p.OriginalContent != "take it back" {
		t.Errorf("snapshot = %+v, want original text projection", p)
	}
	if !p.CanPeek {
		t.Errorf("sender lost the peek affordance")
	}
	if len(f.view.replaced) != 1 || f.view.replaced[0].Variant() != model.Recalled {
		t.Errorf("view not updated with the recalled row")
	}
	if f.previews != 1 {
		t.Errorf("preview refreshed %d times, want 1", f.previews)
	}
	if n := f.notices.last(t); n.sev != Success {
		t.Errorf("notice severity = %v, want Success", n.sev)
	}
}

func TestRecallWindowBoundary(t *testing.T) {
	for _, tc := range []struct {
		name    string
		age     time.Duration
		wantErr error
	}{
		{name: "well within", age: 5 * time.Second},
		{name: "exactly at the window", age: DefaultRecallWindow},
		{name: "one second past", age: DefaultRecallWindow + time.Second, wantErr: ErrRecallWindowExpired},
	} {
		t.Run(tc.name, func(t *testing.T) {
			msg := textMsg("m1", true, tc.age, "timely")
			f := newFixture(t, []model.Message{msg}, nil)
			err := f.ctl.Do(Recall, msg)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("recall at age %v: err = %v, want %v", tc.age, err, tc.wantErr)
			}
			if tc.wantErr != nil {
				if got := f.stored(t)[0].Variant(); got != model.Text {
					t.Errorf("expired recall still mutated the store: %v", got)
				}
				if n := f.notices.last(t); n.sev != Warning {
					t.Errorf("notice severity = %v, want Warning", n.sev)
				}
			}
		})
	}
}

func TestRecallNotOwnMessage(t *testing.T) {
	msg := textMsg("m1", false, 5*time.Second, "theirs")
	f := newFixture(t, []model.Message{msg}, nil)
	if err := f.ctl.Do(Recall, msg); !errors.Is(err, ErrNotOwnMessage) {
		t.Fatalf("recalling a peer message: err = %v, want %v", err, ErrNotOwnMessage)
	}
	if got := f.stored(t)[0].Variant(); got != model.Text {
		t.Errorf("peer recall mutated the store: %v", got)
	}
}

func TestRecallStoreFailure(t *testing.T) {
	msg := textMsg("m1", true, 5*time.Second, "doomed")
	f := newFixture(t, []model.Message{msg}, nil)
	f.msgs.failUpdate = true
	err := f.ctl.Do(Recall, msg)
	if !errors.Is(err, ErrStoreWrite) {
		t.Fatalf("err = %v, want %v", err, ErrStoreWrite)
	}
	if len(f.view.replaced) != 0 {
		t.Errorf("view mutated despite failed store write")
	}
	if n := f.notices.last(t); n.sev != Error {
		t.Errorf("notice severity = %v, want Error", n.sev)
	}
}

func TestRecallToleratesViewDesync(t *testing.T) {
	msg := textMsg("m1", true, 5*time.Second, "almost")
	f := newFixture(t, []model.Message{msg}, nil)
	f.view.replaceErr = errInjected
	if err := f.ctl.Do(Recall, msg); err != nil {
		t.Fatalf("view desync escalated to a recall failure: %v", err)
	}
	if got := f.stored(t)[0].Variant(); got != model.Recalled {
		t.Errorf("store not updated: %v", got)
	}
	if n := f.notices.last(t); n.sev != Success {
		t.Errorf("notice severity = %v, want Success", n.sev)
	}
}

func TestFavoriteToggleInvolution(t *testing.T) {
	msg := textMsg("m1", false, time.Hour, "keeper")
	f := newFixture(t, []model.Message{msg}, nil)

	if err := f.ctl.Do(Favorite, msg); err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	faves, _ := f.msgs.Memory.List()
	if len(faves) != 1 {
		t.Fatalf("favorites = %d, want 1", len(faves))
	}
	fav := faves[0]
	if fav.MessageID != "m1" || fav.SenderDisplay != "Ada" || fav.Variant != model.Text || fav.Content != "keeper" {
		t.Errorf("favorite snapshot = %+v", fav)
	}

	if err := f.ctl.Do(Favorite, msg); err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	faves, _ = f.msgs.Memory.List()
	if len(faves) != 0 {
		t.Errorf("favorites after involution = %d, want 0", len(faves))
	}
}

func TestFavoriteLocalUsesSelfDisplay(t *testing.T) {
	msg := textMsg("m1", true, time.Hour, "mine")
	f := newFixture(t, []model.Message{msg}, nil)
	if err := f.ctl.Do(Favorite, msg); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	faves, _ := f.msgs.Memory.List()
	if faves[0].SenderDisplay != "You" {
		t.Errorf("SenderDisplay = %q, want default self display", faves[0].SenderDisplay)
	}
}

func TestFavoriteTargetResolution(t *testing.T) {
	msg := textMsg("m1", false, time.Hour, "orphan")
	f := newFixture(t, []model.Message{msg}, func(cfg *Config) {
		cfg.PeerDisplay = ""
	})
	if err := f.ctl.Do(Favorite, msg); !errors.Is(err, ErrTargetResolution) {
		t.Fatalf("err = %v, want %v", err, ErrTargetResolution)
	}
	faves, _ := f.msgs.Memory.List()
	if len(faves) != 0 {
		t.Errorf("unresolvable favorite still recorded")
	}
}

func TestDeleteByID(t *testing.T) {
	// Twins share the legacy tuple but have distinct IDs.
	twinA := textMsg("a", true, time.Hour, "twin")
	twinB := textMsg("b", true, time.Hour, "twin")
	f := newFixture(t, []model.Message{twinA, twinB}, nil)

	if err := f.ctl.Do(Delete, twinA); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	remaining := f.stored(t)
	if len(remaining) != 1 || remaining[0].ID != "b" {
		t.Fatalf("remaining = %+v, want only twin b", remaining)
	}
	if len(f.view.removed) != 1 {
		t.Errorf("view removals = %d, want 1", len(f.view.removed))
	}
}

func TestDeleteLegacyTuple(t *testing.T) {
	// ID-less twins: tuple matching removes both, by contract.
	at := now.Add(-time.Hour)
	twin := model.Message{Local: true, SentAt: at, Payload: model.TextPayload{Body: "twin"}}
	other := model.Message{ID: "keep", Local: false, SentAt: at, Payload: model.TextPayload{Body: "other"}}
	f := newFixture(t, nil, nil)
	// Bypass Seed's ID backfill to exercise the legacy path.
	if err := f.msgs.Memory.Save(conv, []model.Message{twin, twin, other}); err != nil {
		t.Fatalf("seeding: %v", err)
	}

	if err := f.ctl.Do(Delete, twin); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	remaining := f.stored(t)
	if len(remaining) != 1 || remaining[0].ID != "keep" {
		t.Fatalf("remaining = %+v, want only the unrelated message", remaining)
	}
}

func TestDeleteStoreFailure(t *testing.T) {
	msg := textMsg("m1", true, time.Hour, "stuck")
	f := newFixture(t, []model.Message{msg}, nil)
	f.msgs.failSave = true
	if err := f.ctl.Do(Delete, msg); !errors.Is(err, ErrStoreWrite) {
		t.Fatalf("err = %v, want %v", err, ErrStoreWrite)
	}
	if len(f.view.removed) != 0 {
		t.Errorf("view mutated despite failed store write")
	}
	if len(f.stored(t)) != 1 {
		t.Errorf("store mutated despite failed save")
	}
}

func TestDeleteToleratesViewDesync(t *testing.T) {
	msg := textMsg("m1", true, time.Hour, "gone")
	f := newFixture(t, []model.Message{msg}, nil)
	f.view.removeErr = errInjected
	if err := f.ctl.Do(Delete, msg); err != nil {
		t.Fatalf("view desync escalated to a delete failure: %v", err)
	}
	if len(f.stored(t)) != 0 {
		t.Errorf("store still holds the deleted message")
	}
	if n := f.notices.last(t); n.sev != Success {
		t.Errorf("notice severity = %v, want Success", n.sev)
	}
}

func TestQuoteFlattens(t *testing.T) {
	msg := model.Message{
		ID:     "q1",
		Local:  false,
		SentAt: now.Add(-time.Hour),
		Payload: model.QuotePayload{
			Echo:  "original statement",
			Reply: "the reply",
		},
	}
	f := newFixture(t, []model.Message{msg}, nil)
	if err := f.ctl.Do(QuoteReply, msg); err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if len(f.quotes) != 1 {
		t.Fatalf("quote signals = %d, want 1", len(f.quotes))
	}
	ref := f.quotes[0]
	if ref.Variant != model.Text {
		t.Errorf("quoted quote variant = %v, want flattened %v", ref.Variant, model.Text)
	}
	if ref.Content != "the reply" {
		t.Errorf("quoted content = %q, want the embedded reply only", ref.Content)
	}
	if ref.SenderDisplay != "Ada" {
		t.Errorf("SenderDisplay = %q, want peer name", ref.SenderDisplay)
	}
	if got := f.stored(t)[0].Variant(); got != model.Quote {
		t.Errorf("quoting mutated the store: %v", got)
	}
}

func TestQuoteRejectsVariants(t *testing.T) {
	for _, tc := range []struct {
		name    string
		payload model.Payload
	}{
		{name: "transfer", payload: model.TransferPayload{Amount: "1.00"}},
		{name: "recalled", payload: model.RecalledPayload{OriginalContent: "x"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			msg := model.Message{ID: "m1", SentAt: now, Payload: tc.payload}
			f := newFixture(t, []model.Message{msg}, nil)
			if err := f.ctl.Do(QuoteReply, msg); !errors.Is(err, ErrUnsupportedVariant) {
				t.Fatalf("err = %v, want %v", err, ErrUnsupportedVariant)
			}
			if len(f.quotes) != 0 {
				t.Errorf("rejected quote still emitted a signal")
			}
		})
	}
}

func TestQuoteDisabled(t *testing.T) {
	msg := textMsg("m1", false, time.Hour, "quiet")
	f := newFixture(t, []model.Message{msg}, func(cfg *Config) {
		cfg.OnQuote = nil
	})
	if err := f.ctl.Do(QuoteReply, msg); !errors.Is(err, ErrNotSupported) {
		t.Fatalf("err = %v, want %v", err, ErrNotSupported)
	}
}

func TestPlaceholders(t *testing.T) {
	msg := textMsg("m1", false, time.Hour, "someday")
	for _, kind := range []Kind{Forward, MultiSelect} {
		f := newFixture(t, []model.Message{msg}, nil)
		if err := f.ctl.Do(kind, msg); !errors.Is(err, ErrNotSupported) {
			t.Fatalf("%v: err = %v, want %v", kind, err, ErrNotSupported)
		}
		if n := f.notices.last(t); n.sev != Warning {
			t.Errorf("%v: notice severity = %v, want Warning", kind, n.sev)
		}
	}
}

func TestOptions(t *testing.T) {
	for _, tc := range []struct {
		name   string
		msg    model.Message
		modify func(*Config)
		want   []Kind
	}{
		{
			name: "local text",
			msg:  textMsg("m1", true, time.Minute, "x"),
			want: []Kind{Recall, Favorite, QuoteReply, Forward, MultiSelect, Delete},
		},
		{
			name: "peer text",
			msg:  textMsg("m1", false, time.Minute, "x"),
			want: []Kind{Favorite, QuoteReply, Forward, MultiSelect, Delete},
		},
		{
			name: "transfer never quotable",
			msg:  model.Message{ID: "m1", Local: true, SentAt: now, Payload: model.TransferPayload{Amount: "5"}},
			want: []Kind{Recall, Favorite, Forward, MultiSelect, Delete},
		},
		{
			name: "recalled supports delete only",
			msg:  model.Message{ID: "m1", Local: true, SentAt: now, Payload: model.RecalledPayload{}},
			want: []Kind{Delete},
		},
		{
			name: "quote disabled surface",
			msg:  textMsg("m1", false, time.Minute, "x"),
			modify: func(cfg *Config) {
				cfg.DisableQuote = true
			},
			want: []Kind{Favorite, Forward, MultiSelect, Delete},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, []model.Message{tc.msg}, tc.modify)
			got := f.ctl.Options(tc.msg)
			if len(got) != len(tc.want) {
				t.Fatalf("Options() = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("Options() = %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestDoUnknownKind(t *testing.T) {
	f := newFixture(t, nil, nil)
	if err := f.ctl.Do(Kind(200), model.Message{}); err == nil {
		t.Fatalf("unknown kind accepted")
	}
}
