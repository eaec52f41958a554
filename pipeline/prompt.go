package pipeline

import (
	"fmt"
	"strings"

	"github.com/fwojciec/dbchat"
)

const sqlPromptTemplate = `You are a data analyst at a company. You are interacting with a user who is asking you questions about the company's database.
Based on the table schema below, write a SQL query that would answer the user's question. Take the conversation history into account.

<SCHEMA>%s</SCHEMA>

Conversation History: %s

Write only the SQL query and nothing else.

Question: %s
SQL Query:`

const answerPromptTemplate = `You are a data analyst at a company. You are interacting with a user who is asking you questions about the company's database.
Based on the table schema below, question, sql query, and sql response, write a natural language response.
<SCHEMA>%s</SCHEMA>

Conversation History: %s
SQL Query: <SQL>%s</SQL>
User question: %s
SQL Response: %s`

func sqlPrompt(schema, history, question string) string {
	return fmt.Sprintf(sqlPromptTemplate, schema, history, question)
}

func answerPrompt(schema, history, sqlText, question, result string) string {
	return fmt.Sprintf(answerPromptTemplate, schema, history, sqlText, question, result)
}

// renderHistory renders messages one turn per line as "Human: ..." or
// "AI: ...".
func renderHistory(msgs []dbchat.Message) string {
	if len(msgs) == 0 {
		return "(none)"
	}
	var b strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			b.WriteByte('\n')
		}
		switch m := msg.(type) {
		case dbchat.HumanMessage:
			b.WriteString("Human: ")
			b.WriteString(m.Text)
		case dbchat.AIMessage:
			b.WriteString("AI: ")
			b.WriteString(m.Text)
		}
	}
	return b.String()
}
