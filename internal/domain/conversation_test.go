package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewConversation(t *testing.T) {
	req := require.New(t)

	conv, err := NewConversation("bob", "alice")
	req.NoError(err)
	req.NotEmpty(conv.ID)
	req.Equal([]string{"alice", "bob"}, conv.Members)
	req.Equal("alice|bob", conv.MemberKey)
	req.Equal("bob", conv.CreatedBy)
	req.Nil(conv.LastMessage)
}

func TestNewConversation_Invalid(t *testing.T) {
	req := require.New(t)

	_, err := NewConversation("alice", "alice")
	req.ErrorIs(err, ErrInvalidRecipient)

	_, err = NewConversation("alice", "")
	req.ErrorIs(err, ErrInvalidRecipient)

	_, err = NewConversation("", "alice")
	req.ErrorIs(err, ErrInvalidRecipient)
}

func TestMemberKey_OrderIndependent(t *testing.T) {
	require.Equal(t, MemberKey("alice", "bob"), MemberKey("bob", "alice"))
}

func TestConversation_Participants(t *testing.T) {
	req := require.New(t)
	conv, err := NewConversation("alice", "bob")
	req.NoError(err)

	req.True(conv.IsParticipant("alice"))
	req.True(conv.IsParticipant("bob"))
	req.False(conv.IsParticipant("mallory"))

	req.Equal([]string{"bob"}, conv.OtherParticipants("alice"))
	req.Equal([]string{"alice"}, conv.OtherParticipants("bob"))
}

func TestConversation_SetLastMessage(t *testing.T) {
	req := require.New(t)
	conv, err := NewConversation("alice", "bob")
	req.NoError(err)

	sentAt := time.Now().UTC()
	conv.SetLastMessage(MessagePreview{MessageID: "m1", Snippet: "hi", SenderID: "alice", SentAt: sentAt})
	req.NotNil(conv.LastMessage)
	req.Equal("hi", conv.LastMessage.Snippet)
	req.Equal(sentAt, conv.UpdatedAt)
}

func TestConversation_MarkRead(t *testing.T) {
	req := require.New(t)
	conv, err := NewConversation("alice", "bob")
	req.NoError(err)

	at := time.Now().UTC()
	conv.MarkRead("bob", at)
	req.Equal(at, conv.ReadAt["bob"])
	req.NotContains(conv.ReadAt, "alice")
}
