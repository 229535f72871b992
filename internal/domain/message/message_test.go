package message

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_HappyPath(t *testing.T) {
	msg, err := New("alice", "hello")
	require.NoError(t, err)
	require.NotEmpty(t, msg.ID)
	require.Equal(t, "alice", msg.Sender)
	require.Equal(t, "hello", msg.Content)
	require.Equal(t, StatusSent, msg.Status)
	require.Equal(t, msg.CreatedAt, msg.UpdatedAt)
	require.Equal(t, EntityType, msg.Entity)
}

func TestNew_EmptySender(t *testing.T) {
	_, err := New("  ", "hello")
	require.Error(t, err)
	require.Equal(t, CodeInvalidMessage, CodeOf(err))
}

func TestNew_EmptyContent(t *testing.T) {
	_, err := New("alice", "")
	require.Error(t, err)
	require.Equal(t, CodeInvalidMessage, CodeOf(err))
}

func TestNew_EmptyID(t *testing.T) {
	orig := newID
	newID = func() string { return "" }
	defer func() { newID = orig }()

	_, err := New("alice", "hello")
	require.Error(t, err)
	require.Equal(t, CodeInvalidMessage, CodeOf(err))
}

func TestTransition_SentToDelivered(t *testing.T) {
	msg, err := New("alice", "hello")
	require.NoError(t, err)

	require.NoError(t, msg.Transition(StatusDelivered))
	require.Equal(t, StatusDelivered, msg.Status)
	require.GreaterOrEqual(t, msg.UpdatedAt, msg.CreatedAt)
	require.True(t, msg.IsDelivered())
	require.False(t, msg.IsRead())
}

func TestTransition_SentToRead(t *testing.T) {
	msg, err := New("alice", "hello")
	require.NoError(t, err)

	require.NoError(t, msg.Transition(StatusRead))
	require.Equal(t, StatusRead, msg.Status)
	require.True(t, msg.IsRead())
	require.True(t, msg.IsDelivered())
}

func TestTransition_DeliveredToRead(t *testing.T) {
	msg, err := New("alice", "hello")
	require.NoError(t, err)
	require.NoError(t, msg.Transition(StatusDelivered))
	require.NoError(t, msg.Transition(StatusRead))
	require.Equal(t, StatusRead, msg.Status)
}

func TestTransition_ReadIsTerminal(t *testing.T) {
	msg, err := New("alice", "hello")
	require.NoError(t, err)
	require.NoError(t, msg.Transition(StatusRead))

	for _, to := range []Status{StatusSent, StatusDelivered, StatusRead} {
		err := msg.Transition(to)
		require.Error(t, err)
		require.Equal(t, CodeInvalidTransition, CodeOf(err))
		require.Equal(t, StatusRead, msg.Status)
	}
}

func TestTransition_SameStatusRejected(t *testing.T) {
	msg, err := New("alice", "hello")
	require.NoError(t, err)

	err = msg.Transition(StatusSent)
	require.Error(t, err)
	require.Equal(t, CodeInvalidTransition, CodeOf(err))
	require.Equal(t, StatusSent, msg.Status)
}

func TestTransition_Backwards(t *testing.T) {
	msg, err := New("alice", "hello")
	require.NoError(t, err)
	require.NoError(t, msg.Transition(StatusDelivered))

	err = msg.Transition(StatusSent)
	require.Error(t, err)
	require.Equal(t, CodeInvalidTransition, CodeOf(err))
}

func TestParseStatus(t *testing.T) {
	s, ok := ParseStatus("sent")
	require.True(t, ok)
	require.Equal(t, StatusSent, s)

	s, ok = ParseStatus(" READ ")
	require.True(t, ok)
	require.Equal(t, StatusRead, s)

	_, ok = ParseStatus("ARCHIVED")
	require.False(t, ok)
}

func TestError_UnwrapAndCodeOf(t *testing.T) {
	cause := errors.New("boom")
	err := NewError(CodeStorageFailure, "failed to create message", cause)

	require.ErrorIs(t, err, cause)
	require.Equal(t, CodeStorageFailure, CodeOf(err))
	require.Contains(t, err.Error(), "STORAGE_FAILURE")
	require.Contains(t, err.Error(), "boom")

	require.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
}
