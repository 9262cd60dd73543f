package widget

// Row holds persistent state for a single message row of a chat.
type Row struct {
	// Menu holds the activation and placement state of the message's
	// action menu.
	Menu MenuArea

	Message
}
