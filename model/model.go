/*
Package model provides the data model for chat messages and the
operations-facing projections of their content.

A message's content is a tagged union: the Variant field names the
active payload type, and exactly one payload struct is meaningful per
variant. Operations over messages switch exhaustively on the variant so
that adding a new one breaks compilation of every projection that needs
updating.
*/
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Variant is the tagged type of a message's content.
type Variant uint8

const (
	// Text is a plain text message.
	Text Variant = iota
	// Reaction is a sticker or emoji reference.
	Reaction
	// Media is an image reference with an optional caption.
	Media
	// Quote embeds a prior message's echo along with new reply text.
	Quote
	// Transfer carries a monetary payload.
	Transfer
	// Recalled is the terminal variant of a recalled message. It retains
	// a snapshot of the pre-recall content for the sender's benefit.
	Recalled
)

// String converts the variant into a printable representation.
func (v Variant) String() string {
	switch v {
	case Text:
		return "text"
	case Reaction:
		return "reaction"
	case Media:
		return "media"
	case Quote:
		return "quote"
	case Transfer:
		return "transfer"
	case Recalled:
		return "recalled"
	default:
		return "unknown"
	}
}

// Payload is the content of a message. Exactly one concrete payload
// type corresponds to each Variant.
type Payload interface {
	Variant() Variant
}

// TextPayload is the content of a Text message.
type TextPayload struct {
	Body string
}

func (TextPayload) Variant() Variant { return Text }

// ReactionPayload references a sticker or emoji. Name may be empty on
// legacy records that only stored the reference ID; use a resolver to
// recover the display name in that case.
type ReactionPayload struct {
	Ref  string
	Name string
}

func (ReactionPayload) Variant() Variant { return Reaction }

// MediaPayload references an image with an optional caption.
type MediaPayload struct {
	Ref     string
	Caption string
}

func (MediaPayload) Variant() Variant { return Media }

// QuotePayload embeds the echo of a quoted message plus the new reply
// text. Echo is always a single level deep: quoting a quote flattens
// to the quoted message's reply text.
type QuotePayload struct {
	Echo  string
	Reply string
}

func (QuotePayload) Variant() Variant { return Quote }

// TransferPayload carries a monetary amount, formatted by the sender.
type TransferPayload struct {
	Amount string
}

func (TransferPayload) Variant() Variant { return Transfer }

// RecalledPayload is the snapshot left behind by a recall. It is never
// mutated after the recall completes.
type RecalledPayload struct {
	// OriginalVariant is the variant the message had before recall.
	OriginalVariant Variant
	// OriginalContent is the display projection of the pre-recall
	// payload.
	OriginalContent string
	// CanPeek reports whether the original sender may still view the
	// pre-recall content.
	CanPeek bool
}

func (RecalledPayload) Variant() Variant { return Recalled }

// Message is the unit of interaction within a conversation.
type Message struct {
	// ID uniquely identifies the message. Legacy records may lack one,
	// in which case operations fall back to tuple matching; see
	// BackfillIDs for the recommended migration.
	ID string
	// Local indicates that the message was sent by the local user.
	Local bool
	// SentAt is the send timestamp. The recall window is measured
	// against it at second resolution.
	SentAt time.Time
	// Payload holds the variant-specific content.
	Payload Payload
}

// Variant reports the active variant of the message's payload.
func (m Message) Variant() Variant {
	if m.Payload == nil {
		return Text
	}
	return m.Payload.Variant()
}

// RecalledMarker is displayed in place of recalled message content.
const RecalledMarker = "[recalled]"

// MediaMarker is displayed for media messages without a caption.
const MediaMarker = "[media]"

// ReactionResolver recovers a reaction display name from its reference
// ID. Implementations return "" when the reference is unknown.
type ReactionResolver func(ref string) string

// DisplayString projects the message's payload to the single-line text
// the UI shows for it, as used by conversation previews, recall
// snapshots and favorite snapshots. The resolver may be nil; it is
// consulted only for legacy reactions that lack an inline name.
func (m Message) DisplayString(resolve ReactionResolver) string {
	switch p := m.Payload.(type) {
	case TextPayload:
		return p.Body
	case ReactionPayload:
		if p.Name != "" {
			return p.Name
		}
		if resolve != nil {
			if name := resolve(p.Ref); name != "" {
				return name
			}
		}
		return p.Ref
	case MediaPayload:
		if p.Caption != "" {
			return p.Caption
		}
		return MediaMarker
	case QuotePayload:
		return p.Reply
	case TransferPayload:
		return fmt.Sprintf("[transfer]¤%s", p.Amount)
	case RecalledPayload:
		return RecalledMarker
	default:
		return ""
	}
}

// LegacyKey identifies an ID-less message by the (time, sender,
// content) tuple. Multiple messages may share a key; deleting by it is
// inherently lossy on such data, which is why BackfillIDs exists.
type LegacyKey struct {
	SentAt  int64
	Local   bool
	Content string
}

// Legacy returns the tuple key for the message.
func (m Message) Legacy(resolve ReactionResolver) LegacyKey {
	return LegacyKey{
		SentAt:  m.SentAt.Unix(),
		Local:   m.Local,
		Content: m.DisplayString(resolve),
	}
}

// BackfillIDs assigns a fresh unique ID to every message that lacks
// one, in place. Stores call this at load time so that tuple matching
// only ever applies to records the host hands in directly.
func BackfillIDs(msgs []Message) {
	for i := range msgs {
		if msgs[i].ID == "" {
			msgs[i].ID = uuid.NewString()
		}
	}
}

// Favorite is a derived record snapshotting a favorited message. It is
// independent of the source message: deleting the message does not
// remove the favorite.
type Favorite struct {
	// MessageID is the ID of the favorited message.
	MessageID string
	// Conversation scopes the favorite to its source conversation.
	Conversation string
	// SenderDisplay is the display name of the sender at favorite time.
	SenderDisplay string
	// Variant is the message variant at favorite time.
	Variant Variant
	// Content is the display projection of the payload at favorite time.
	Content string
	// SentAt is the original message timestamp.
	SentAt time.Time
}
