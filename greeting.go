package dbchat

import "strings"

// WelcomeText is the assistant message every new session starts with.
const WelcomeText = "Hello! I'm a SQL assistant. Ask me anything about your database."

// greetings maps recognized pleasantries to their canned replies.
// Matching is exact after trimming and lowercasing, so "hello there"
// goes to the model like any other question.
var greetings = map[string]string{
	"hello":           "Hello! How can I assist you today?",
	"hi":              "Hi there! How can I help?",
	"how are you":     "I'm just a bot, but I'm here to help!",
	"bye":             "Goodbye! Have a great day!",
	"goodbye":         "Take care! See you next time!",
	"have a good day": "You too! Let me know if you need anything.",
}

// GreetingReply returns the canned reply for input if it is a recognized
// greeting. The boolean reports whether input matched.
func GreetingReply(input string) (string, bool) {
	reply, ok := greetings[strings.ToLower(strings.TrimSpace(input))]
	return reply, ok
}
