package domain

import "fmt"

// Kind classifies a domain error so the request layer can pick a response
// status without matching on message text.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindNotFound
	KindConflict
)

// Error is the failure type returned by every fallible domain and use-case
// operation. Two Errors compare equal under errors.Is when their codes match,
// so detailed instances (e.g. per-attachment validation messages) still match
// their sentinel.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithMessage returns a copy carrying a more specific message but the same
// kind and code, so it still matches the original sentinel.
func (e *Error) WithMessage(format string, args ...any) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

// KindOf reports the kind of err, or KindInternal for anything that is not a
// domain Error (storage failures, context cancellation, ...).
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return KindInternal
}

var (
	ErrEmptyMessage      = &Error{Kind: KindValidation, Code: "empty_message", Message: "message needs content or at least one attachment"}
	ErrContentTooLong    = &Error{Kind: KindValidation, Code: "content_too_long", Message: "message content exceeds 4000 characters"}
	ErrInvalidAttachment = &Error{Kind: KindValidation, Code: "invalid_attachment", Message: "invalid attachment"}
	ErrInvalidEmoji      = &Error{Kind: KindValidation, Code: "invalid_emoji", Message: "emoji is not part of the reaction vocabulary"}
	ErrInvalidRecipient  = &Error{Kind: KindValidation, Code: "invalid_recipient", Message: "a conversation needs exactly one other distinct user"}

	ErrNotParticipant = &Error{Kind: KindUnauthorized, Code: "not_participant", Message: "user is not a participant of this conversation"}
	ErrNotSender      = &Error{Kind: KindUnauthorized, Code: "not_sender", Message: "only the sender may modify this message"}

	ErrConversationNotFound = &Error{Kind: KindNotFound, Code: "conversation_not_found", Message: "conversation not found"}
	ErrMessageNotFound      = &Error{Kind: KindNotFound, Code: "message_not_found", Message: "message not found"}

	ErrDuplicateReaction = &Error{Kind: KindConflict, Code: "duplicate_reaction", Message: "user already reacted with this emoji"}
	ErrReactionNotFound  = &Error{Kind: KindConflict, Code: "reaction_not_found", Message: "reaction does not exist"}
)
