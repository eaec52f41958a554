package dbchat

import "time"

// Message is a sealed interface representing a conversation message.
// The unexported marker method prevents external implementations.
// Role() returns the message's role without requiring a type switch.
type Message interface {
	isMessage()
	Role() Role
}

// HumanMessage represents a message typed by the user.
type HumanMessage struct {
	Text      string
	Timestamp time.Time
}

func (HumanMessage) isMessage() {}

// Role returns RoleHuman.
func (HumanMessage) Role() Role { return RoleHuman }

// AIMessage represents a reply produced by the assistant.
type AIMessage struct {
	Text      string
	Timestamp time.Time
}

func (AIMessage) isMessage() {}

// Role returns RoleAI.
func (AIMessage) Role() Role { return RoleAI }

// Interface compliance checks.
var (
	_ Message = HumanMessage{}
	_ Message = AIMessage{}
)
