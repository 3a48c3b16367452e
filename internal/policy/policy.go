// Package policy holds the access rules as pure predicates over an explicit
// principal value. Handlers evaluate these before any directory or ledger
// call is honored; a false result is an authorization failure, never a
// silent empty response.
package policy

import dom "github.com/alex-rutan/express-messagely/internal/domain"

// Principal is the identity resolved from the request's session.
type Principal struct {
	Username string
}

// CanReadMessage reports whether the principal is a participant of the
// message, as sender or recipient.
func CanReadMessage(p Principal, m dom.Message) bool {
	return p.Username == m.FromUsername || p.Username == m.ToUsername
}

// CanMarkRead reports whether the principal may mark the message read.
// Only the recipient may; the sender cannot mark their own message.
func CanMarkRead(p Principal, m dom.Message) bool {
	return p.Username == m.ToUsername
}

// CanViewProfile reports whether the principal may view the target user's
// profile and message lists. Self-service only; there is no admin role.
func CanViewProfile(p Principal, targetUsername string) bool {
	return p.Username == targetUsername
}
