package dto

import (
	"time"

	dom "github.com/alex-rutan/express-messagely/internal/domain"
)

// SendMessageRequest is the JSON body for POST /messages.
type SendMessageRequest struct {
	ToUsername string `json:"to_username" binding:"required"`
	Body       string `json:"body" binding:"required"`
}

// MessageResponse is the bare message, returned from send and mark-read.
type MessageResponse struct {
	ID           int64      `json:"id"`
	FromUsername string     `json:"from_username"`
	ToUsername   string     `json:"to_username"`
	Body         string     `json:"body"`
	SentAt       time.Time  `json:"sent_at"`
	ReadAt       *time.Time `json:"read_at"`
}

// MessageDetailResponse is the enriched message for GET /messages/:id.
type MessageDetailResponse struct {
	ID       int64               `json:"id"`
	FromUser UserProfileResponse `json:"from_user"`
	ToUser   UserProfileResponse `json:"to_user"`
	Body     string              `json:"body"`
	SentAt   time.Time           `json:"sent_at"`
	ReadAt   *time.Time          `json:"read_at"`
}

// SentMessageResponse is an outbox entry for GET /users/:username/from.
type SentMessageResponse struct {
	ID     int64               `json:"id"`
	ToUser UserProfileResponse `json:"to_user"`
	Body   string              `json:"body"`
	SentAt time.Time           `json:"sent_at"`
	ReadAt *time.Time          `json:"read_at"`
}

// ReceivedMessageResponse is an inbox entry for GET /users/:username/to.
type ReceivedMessageResponse struct {
	ID       int64               `json:"id"`
	FromUser UserProfileResponse `json:"from_user"`
	Body     string              `json:"body"`
	SentAt   time.Time           `json:"sent_at"`
	ReadAt   *time.Time          `json:"read_at"`
}

// GetMessageResponse wraps a single message payload.
type GetMessageResponse struct {
	Message MessageDetailResponse `json:"message"`
}

// SentMessagesResponse wraps the outbox listing.
type SentMessagesResponse struct {
	Messages []SentMessageResponse `json:"messages"`
}

// ReceivedMessagesResponse wraps the inbox listing.
type ReceivedMessagesResponse struct {
	Messages []ReceivedMessageResponse `json:"messages"`
}

func MessageToResponse(m dom.Message) MessageResponse {
	return MessageResponse{
		ID:           m.ID,
		FromUsername: m.FromUsername,
		ToUsername:   m.ToUsername,
		Body:         m.Body,
		SentAt:       m.SentAt,
		ReadAt:       m.ReadAt,
	}
}

func DetailToResponse(d dom.MessageDetail) MessageDetailResponse {
	return MessageDetailResponse{
		ID:       d.ID,
		FromUser: ProfileToResponse(d.From),
		ToUser:   ProfileToResponse(d.To),
		Body:     d.Body,
		SentAt:   d.SentAt,
		ReadAt:   d.ReadAt,
	}
}

func SentToResponses(list []dom.SentMessage) []SentMessageResponse {
	out := make([]SentMessageResponse, len(list))
	for i, m := range list {
		out[i] = SentMessageResponse{
			ID:     m.ID,
			ToUser: ProfileToResponse(m.To),
			Body:   m.Body,
			SentAt: m.SentAt,
			ReadAt: m.ReadAt,
		}
	}
	return out
}

func ReceivedToResponses(list []dom.ReceivedMessage) []ReceivedMessageResponse {
	out := make([]ReceivedMessageResponse, len(list))
	for i, m := range list {
		out[i] = ReceivedMessageResponse{
			ID:       m.ID,
			FromUser: ProfileToResponse(m.From),
			Body:     m.Body,
			SentAt:   m.SentAt,
			ReadAt:   m.ReadAt,
		}
	}
	return out
}
