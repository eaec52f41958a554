package dbchat

// Response is the outcome of one conversation turn. SQL holds the
// generated query exactly as the model produced it, and is empty when no
// query was run: greetings and refused queries answer without touching
// the database.
type Response struct {
	SQL    string
	Answer string
}
