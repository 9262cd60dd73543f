package action

import "errors"

// The operation error taxonomy. Every failure is recoverable: Do
// converts it into a transient user notice at the dispatch boundary
// and nothing propagates as fatal.
var (
	// ErrNotOwnMessage rejects a recall of somebody else's message.
	ErrNotOwnMessage = errors.New("message was not sent by you")
	// ErrRecallWindowExpired rejects a recall after the window has
	// elapsed.
	ErrRecallWindowExpired = errors.New("recall window has expired")
	// ErrUnsupportedVariant rejects an operation on a message variant
	// it does not apply to.
	ErrUnsupportedVariant = errors.New("unsupported message variant")
	// ErrStoreWrite wraps persistence failures.
	ErrStoreWrite = errors.New("store write failed")
	// ErrTargetResolution reports that the conversation or contact
	// could not be resolved.
	ErrTargetResolution = errors.New("conversation target not found")
	// ErrNotSupported reports an operation that is present in the menu
	// but deliberately unimplemented.
	ErrNotSupported = errors.New("not yet supported")
)
