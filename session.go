package dbchat

import "time"

// Session represents one conversation over one database connection.
// It is owned by the UI shell and passed to the pipeline on every turn.
// Not safe for concurrent use.
type Session struct {
	DB        Database
	Messages  []Message
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSession creates a session over db, seeded with the assistant's
// welcome message.
func NewSession(db Database) *Session {
	now := time.Now()
	return &Session{
		DB:        db,
		Messages:  []Message{AIMessage{Text: WelcomeText, Timestamp: now}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Append adds messages to the history and bumps UpdatedAt.
func (s *Session) Append(msgs ...Message) {
	s.Messages = append(s.Messages, msgs...)
	s.UpdatedAt = time.Now()
}

// Recent returns at most the last n messages, oldest dropped first,
// original order preserved.
func (s *Session) Recent(n int) []Message {
	if n <= 0 || len(s.Messages) == 0 {
		return nil
	}
	if len(s.Messages) <= n {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-n:]
}

// Close releases the session's database handle.
func (s *Session) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}
