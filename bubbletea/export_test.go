package bubbletea

// OnChat reports whether the model has switched to the chat screen.
func OnChat(m Model) bool { return m.screen == screenChat }

// Connecting reports whether the async connect command is in flight.
func Connecting(m Model) bool { return m.connecting }

// FormError exposes the connection form's last error.
func FormError(m Model) error { return m.formErr }
