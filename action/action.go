/*
Package action implements the state-changing operations available on a
chat message: recall, favorite-toggle, delete and quote, plus the
forward and multi-select placeholders.

A Controller owns the operations for one chat surface. All of its
dependencies are constructor-injected, so independent surfaces can run
concurrently without shared mutable state. Operations are synchronous;
run them through an async.Writer when invoking from a layout goroutine.
*/
package action

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"git.sr.ht/~rywen/msgactions/model"
	"git.sr.ht/~rywen/msgactions/store"
)

// DefaultRecallWindow is how long a sender may recall their own
// message after sending it.
const DefaultRecallWindow = 120 * time.Second

// Kind identifies an operation offered by the action menu.
type Kind uint8

const (
	// Recall retracts a recently sent local message.
	Recall Kind = iota
	// Favorite toggles the favorite record of the message.
	Favorite
	// QuoteReply selects the message for a quoted reply.
	QuoteReply
	// Forward is a placeholder; invoking it reports ErrNotSupported.
	Forward
	// MultiSelect is a placeholder; invoking it reports
	// ErrNotSupported.
	MultiSelect
	// Delete removes the message from the store and the view.
	Delete
)

// String converts the kind into a printable representation.
func (k Kind) String() string {
	switch k {
	case Recall:
		return "recall"
	case Favorite:
		return "favorite"
	case QuoteReply:
		return "quote"
	case Forward:
		return "forward"
	case MultiSelect:
		return "multi-select"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

// Severity classifies a user notice.
type Severity uint8

const (
	Success Severity = iota
	Warning
	Error
)

// Notifier shows a fire-and-forget transient message to the user.
type Notifier interface {
	Notify(sev Severity, text string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(sev Severity, text string)

func (f NotifierFunc) Notify(sev Severity, text string) { f(sev, text) }

// View keeps the laid-out message list in sync with the store. Both
// methods degrade gracefully: a failure is reported but the store
// remains the source of truth.
type View interface {
	// Replace swaps the row representing the message for its updated
	// form.
	Replace(msg model.Message) error
	// Remove takes the row representing the message out of the view.
	Remove(msg model.Message) error
}

// QuoteRef is the quote-selection signal consumed by the message
// composition UI. Quoting never mutates the store.
type QuoteRef struct {
	MessageID     string
	SenderDisplay string
	// Variant of the reference. A quoted quote flattens to Text.
	Variant model.Variant
	// Content carries the display text of the quoted message.
	Content string
}

// Config assembles a Controller's collaborators.
type Config struct {
	// Conversation scopes every operation.
	Conversation string
	// Messages is the message store adapter. Required.
	Messages store.Messages
	// Favorites is the favorites store. Required.
	Favorites store.Favorites
	// View receives row replacements and removals. Required.
	View View
	// Notifier receives user-visible outcomes. Required.
	Notifier Notifier
	// RefreshPreview is invoked after any operation that changes the
	// conversation's most-recent-message summary. May be nil.
	RefreshPreview func(conversation string)
	// ResolveReaction recovers legacy reaction names. May be nil.
	ResolveReaction model.ReactionResolver
	// OnQuote receives quote-selection signals. May be nil, which
	// disables quoting.
	OnQuote func(QuoteRef)
	// DisableQuote omits quoting from the menu, e.g. on read-only
	// archive surfaces.
	DisableQuote bool
	// SelfDisplay names the local user in favorite snapshots.
	// Defaults to "You".
	SelfDisplay string
	// PeerDisplay names the counterpart. Empty means the contact
	// cannot be resolved and favoriting fails with a notice.
	PeerDisplay string
	// RecallWindow overrides DefaultRecallWindow.
	RecallWindow time.Duration
	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
	// Log receives the required entries for tolerated store/view
	// desyncs. Defaults to a disabled logger.
	Log zerolog.Logger
}

// Controller dispatches message operations for a single chat surface.
type Controller struct {
	cfg      Config
	dispatch map[Kind]func(model.Message) error
}

// NewController constructs a Controller. It panics if a required
// collaborator is missing.
func NewController(cfg Config) *Controller {
	switch {
	case cfg.Messages == nil:
		panic(fmt.Errorf("must provide a message store"))
	case cfg.Favorites == nil:
		panic(fmt.Errorf("must provide a favorites store"))
	case cfg.View == nil:
		panic(fmt.Errorf("must provide a view"))
	case cfg.Notifier == nil:
		panic(fmt.Errorf("must provide a notifier"))
	}
	if cfg.SelfDisplay == "" {
		cfg.SelfDisplay = "You"
	}
	if cfg.RecallWindow == 0 {
		cfg.RecallWindow = DefaultRecallWindow
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	c := &Controller{cfg: cfg}
	c.dispatch = map[Kind]func(model.Message) error{
		Recall:      c.recall,
		Favorite:    c.favoriteToggle,
		QuoteReply:  c.quote,
		Forward:     c.placeholder(Forward),
		MultiSelect: c.placeholder(MultiSelect),
		Delete:      c.delete,
	}
	return c
}

// Options computes the operation list offered for the message. Recall
// is offered only for local, non-recalled messages; quoting is omitted
// for unsupported variants and disabled surfaces; recalled messages
// support only deletion.
func (c *Controller) Options(msg model.Message) []Kind {
	if msg.Variant() == model.Recalled {
		return []Kind{Delete}
	}
	var opts []Kind
	if msg.Local {
		opts = append(opts, Recall)
	}
	opts = append(opts, Favorite)
	if c.quotable(msg) {
		opts = append(opts, QuoteReply)
	}
	opts = append(opts, Forward, MultiSelect, Delete)
	return opts
}

// Do dispatches the operation and converts any failure into a
// transient notice. The error is also returned for callers that need
// to inspect the outcome.
func (c *Controller) Do(kind Kind, msg model.Message) error {
	handler, ok := c.dispatch[kind]
	if !ok {
		return fmt.Errorf("unknown action kind %d", kind)
	}
	err := handler(msg)
	if err != nil {
		c.cfg.Notifier.Notify(severityOf(err), err.Error())
	}
	return err
}

// placeholder builds the handler for operations that are present in
// the menu surface but have no defined contract yet.
func (c *Controller) placeholder(kind Kind) func(model.Message) error {
	return func(msg model.Message) error {
		c.cfg.Log.Info().
			Stringer("action", kind).
			Str("message", msg.ID).
			Msg("unimplemented action invoked")
		return fmt.Errorf("%s: %w", kind, ErrNotSupported)
	}
}

func (c *Controller) quotable(msg model.Message) bool {
	if c.cfg.DisableQuote || c.cfg.OnQuote == nil {
		return false
	}
	switch msg.Variant() {
	case model.Text, model.Reaction, model.Media, model.Quote:
		return true
	default:
		return false
	}
}

func (c *Controller) refreshPreview() {
	if c.cfg.RefreshPreview != nil {
		c.cfg.RefreshPreview(c.cfg.Conversation)
	}
}

func severityOf(err error) Severity {
	switch {
	case errors.Is(err, ErrStoreWrite):
		return Error
	default:
		return Warning
	}
}
