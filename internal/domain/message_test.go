package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func validAttachment() AttachmentInput {
	return AttachmentInput{
		URL:       "https://cdn.example.com/a.png",
		MimeType:  "image/png",
		SizeBytes: 1024,
		Filename:  "a.png",
		Width:     640,
		Height:    480,
	}
}

func TestNewMessage_RequiresContentOrAttachment(t *testing.T) {
	req := require.New(t)

	_, err := NewMessage("conv", "alice", "", nil)
	req.ErrorIs(err, ErrEmptyMessage)

	// Whitespace-only content trims to nothing.
	_, err = NewMessage("conv", "alice", "   \n\t ", nil)
	req.ErrorIs(err, ErrEmptyMessage)

	msg, err := NewMessage("conv", "alice", "  hi  ", nil)
	req.NoError(err)
	req.Equal("hi", msg.Content)
	req.Empty(msg.Attachments)
	req.NotEmpty(msg.ID)
	req.Equal("conv", msg.ConversationID)
	req.Equal("alice", msg.SenderID)

	msg, err = NewMessage("conv", "alice", "", []AttachmentInput{validAttachment()})
	req.NoError(err)
	req.Empty(msg.Content)
	req.Len(msg.Attachments, 1)
	req.NotEmpty(msg.Attachments[0].ID)
}

func TestNewMessage_ContentLength(t *testing.T) {
	req := require.New(t)

	msg, err := NewMessage("conv", "alice", strings.Repeat("a", 4000), nil)
	req.NoError(err)
	req.Len(msg.Content, 4000)

	_, err = NewMessage("conv", "alice", strings.Repeat("a", 4001), nil)
	req.ErrorIs(err, ErrContentTooLong)
}

func TestNewMessage_AttachmentValidation(t *testing.T) {
	req := require.New(t)

	oversized := validAttachment()
	oversized.SizeBytes = 52_428_801 // one byte over 50 MiB
	_, err := NewMessage("conv", "alice", "valid content too", []AttachmentInput{oversized})
	req.ErrorIs(err, ErrInvalidAttachment)

	badMime := validAttachment()
	badMime.MimeType = "application/x-msdownload"
	_, err = NewMessage("conv", "alice", "", []AttachmentInput{badMime})
	req.ErrorIs(err, ErrInvalidAttachment)

	noName := validAttachment()
	noName.Filename = "  "
	_, err = NewMessage("conv", "alice", "", []AttachmentInput{noName})
	req.ErrorIs(err, ErrInvalidAttachment)

	noURL := validAttachment()
	noURL.URL = ""
	_, err = NewMessage("conv", "alice", "", []AttachmentInput{noURL})
	req.ErrorIs(err, ErrInvalidAttachment)

	// One invalid attachment rejects the whole message.
	_, err = NewMessage("conv", "alice", "", []AttachmentInput{validAttachment(), badMime})
	req.ErrorIs(err, ErrInvalidAttachment)
}

func TestMessage_ReactionToggleCycle(t *testing.T) {
	req := require.New(t)
	msg, err := NewMessage("conv", "alice", "hello", nil)
	req.NoError(err)

	req.NoError(msg.AddReaction("bob", "❤️"))
	req.True(msg.HasReaction("bob", "❤️"))

	// Adding the same pair again is a conflict, state unchanged.
	req.ErrorIs(msg.AddReaction("bob", "❤️"), ErrDuplicateReaction)
	req.Len(msg.Reactions["❤️"], 1)

	// Different user or different emoji are fine.
	req.NoError(msg.AddReaction("alice", "❤️"))
	req.NoError(msg.AddReaction("bob", "👍"))

	req.NoError(msg.RemoveReaction("bob", "❤️"))
	req.False(msg.HasReaction("bob", "❤️"))
	req.ErrorIs(msg.RemoveReaction("bob", "❤️"), ErrReactionNotFound)

	// add -> remove -> add always succeeds.
	req.NoError(msg.AddReaction("bob", "❤️"))
}

func TestMessage_AddReaction_InvalidEmoji(t *testing.T) {
	req := require.New(t)
	msg, err := NewMessage("conv", "alice", "hello", nil)
	req.NoError(err)
	req.ErrorIs(msg.AddReaction("bob", "🦄"), ErrInvalidEmoji)
}

func TestMessage_UpdateContent(t *testing.T) {
	req := require.New(t)
	msg, err := NewMessage("conv", "alice", "hello", nil)
	req.NoError(err)
	req.Nil(msg.EditedAt)

	req.NoError(msg.UpdateContent("edited"))
	req.Equal("edited", msg.Content)
	req.NotNil(msg.EditedAt)

	// Text-only message cannot be edited into emptiness.
	req.ErrorIs(msg.UpdateContent("   "), ErrEmptyMessage)

	// With an attachment it can.
	withAtt, err := NewMessage("conv", "alice", "caption", []AttachmentInput{validAttachment()})
	req.NoError(err)
	req.NoError(withAtt.UpdateContent(""))
	req.Empty(withAtt.Content)
}

func TestMessage_SoftDelete(t *testing.T) {
	req := require.New(t)
	msg, err := NewMessage("conv", "alice", "hello", nil)
	req.NoError(err)
	req.False(msg.Deleted())

	msg.SoftDelete()
	req.True(msg.Deleted())
	req.NotNil(msg.DeletedAt)
	// Content is retained in storage; visibility is the reader's concern.
	req.Equal("hello", msg.Content)
}

func TestMessage_Preview(t *testing.T) {
	req := require.New(t)

	msg, err := NewMessage("conv", "alice", "hi", nil)
	req.NoError(err)
	p := msg.Preview()
	req.Equal(msg.ID, p.MessageID)
	req.Equal("hi", p.Snippet)
	req.Equal("alice", p.SenderID)
	req.False(p.HasAttachments)

	long, err := NewMessage("conv", "alice", strings.Repeat("x", 200), nil)
	req.NoError(err)
	req.Equal(strings.Repeat("x", 100)+"…", long.Preview().Snippet)

	attOnly, err := NewMessage("conv", "alice", "", []AttachmentInput{validAttachment()})
	req.NoError(err)
	req.Equal("Sent an attachment", attOnly.Preview().Snippet)
	req.True(attOnly.Preview().HasAttachments)
}
