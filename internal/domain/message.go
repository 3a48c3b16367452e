package domain

import "time"

// Message is the bare ledger record. ReadAt is nil until the recipient
// marks the message read; once set it never reverts.
type Message struct {
	ID           int64
	FromUsername string
	ToUsername   string
	Body         string
	SentAt       time.Time
	ReadAt       *time.Time
}

// MessageDetail is a message enriched with both participants' profiles.
type MessageDetail struct {
	ID     int64
	From   UserProfile
	To     UserProfile
	Body   string
	SentAt time.Time
	ReadAt *time.Time
}

// Message returns the bare record underlying the detail, for policy checks.
func (d MessageDetail) Message() Message {
	return Message{
		ID:           d.ID,
		FromUsername: d.From.Username,
		ToUsername:   d.To.Username,
		Body:         d.Body,
		SentAt:       d.SentAt,
		ReadAt:       d.ReadAt,
	}
}

// SentMessage is an outbox entry enriched with the recipient's profile.
type SentMessage struct {
	ID     int64
	To     UserProfile
	Body   string
	SentAt time.Time
	ReadAt *time.Time
}

// ReceivedMessage is an inbox entry enriched with the sender's profile.
type ReceivedMessage struct {
	ID     int64
	From   UserProfile
	Body   string
	SentAt time.Time
	ReadAt *time.Time
}
