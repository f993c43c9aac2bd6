package service

import "time"

// Event payloads carried in the Data field of live-stream envelopes.
// Message, conversation and notification events carry the aggregate itself.

type ReactionPayload struct {
	MessageID      string `json:"message_id"`
	ConversationID string `json:"conversation_id"`
	UserID         string `json:"user_id"`
	Emoji          string `json:"emoji"`
}

type ReadPayload struct {
	ConversationID string    `json:"conversation_id"`
	UserID         string    `json:"user_id"`
	ReadAt         time.Time `json:"read_at"`
}

type MessageDeletedPayload struct {
	MessageID      string `json:"message_id"`
	ConversationID string `json:"conversation_id"`
}

type ConversationDeletedPayload struct {
	ConversationID string `json:"conversation_id"`
	DeletedBy      string `json:"deleted_by"`
}
