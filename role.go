package dbchat

// Role represents the role of a message sender.
type Role string

const (
	RoleHuman Role = "human"
	RoleAI    Role = "ai"
)
