package dbchat_test

import (
	"testing"

	"github.com/fwojciec/dbchat"
	"github.com/stretchr/testify/assert"
)

func TestGreetingReply(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"hello", "hello", "Hello! How can I assist you today?", true},
		{"hi", "hi", "Hi there! How can I help?", true},
		{"how are you", "how are you", "I'm just a bot, but I'm here to help!", true},
		{"bye", "bye", "Goodbye! Have a great day!", true},
		{"goodbye", "goodbye", "Take care! See you next time!", true},
		{"have a good day", "have a good day", "You too! Let me know if you need anything.", true},
		{"uppercase", "HELLO", "Hello! How can I assist you today?", true},
		{"surrounding whitespace", "  hi  ", "Hi there! How can I help?", true},
		{"greeting plus extra words", "hello there", "", false},
		{"data question", "How many customers are there?", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := dbchat.GreetingReply(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
