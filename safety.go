package dbchat

import "strings"

// UnsafeQueryReply is the fixed refusal returned when a generated query
// fails the safety gate.
const UnsafeQueryReply = "Update and Delete operations are not allowed. Please ask a read-only query."

// IsSafeQuery reports whether sqlText passes the mutation gate. The
// check is a coarse case-insensitive substring match: any occurrence of
// "update" or "delete" anywhere in the text fails it, including inside
// identifiers, string literals, and comments. A column named
// last_updated is rejected; INSERT, DROP, and TRUNCATE pass.
func IsSafeQuery(sqlText string) bool {
	lower := strings.ToLower(sqlText)
	return !strings.Contains(lower, "update") && !strings.Contains(lower, "delete")
}
