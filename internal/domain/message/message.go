// Package message holds the domain model and invariants for messages.
package message

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// EntityType is the partition discriminator stored on every message. The
// creation-time index needs an equality key, so all messages share this value.
const EntityType = "MESSAGE"

// Status is the delivery state of a message.
type Status string

const (
	StatusSent      Status = "SENT"
	StatusDelivered Status = "DELIVERED"
	StatusRead      Status = "READ"
)

// validTransitions is the authoritative transition table. READ is terminal,
// and a transition to the current status is not in any allowed set.
var validTransitions = map[Status][]Status{
	StatusSent:      {StatusDelivered, StatusRead},
	StatusDelivered: {StatusRead},
	StatusRead:      {},
}

// ParseStatus maps a request-supplied string onto a Status.
func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusSent:
		return StatusSent, true
	case StatusDelivered:
		return StatusDelivered, true
	case StatusRead:
		return StatusRead, true
	default:
		return "", false
	}
}

// Message is the core domain entity. ID, Sender, Content, CreatedAt and
// Entity are immutable after construction; Status and UpdatedAt change only
// through Transition.
type Message struct {
	ID        string
	Sender    string
	Content   string
	Status    Status
	CreatedAt int64 // milliseconds since epoch
	UpdatedAt int64
	Entity    string
}

// New constructs a Message in the SENT state with a generated id and
// CreatedAt == UpdatedAt.
func New(sender, content string) (*Message, error) {
	return newMessage(newID(), sender, content, nowMillis())
}

func newMessage(id, sender, content string, now int64) (*Message, error) {
	if strings.TrimSpace(id) == "" {
		return nil, NewError(CodeInvalidMessage, "message id is required", nil)
	}
	if strings.TrimSpace(sender) == "" {
		return nil, NewError(CodeInvalidMessage, "message sender is required", nil)
	}
	if strings.TrimSpace(content) == "" {
		return nil, NewError(CodeInvalidMessage, "message content cannot be empty", nil)
	}

	return &Message{
		ID:        id,
		Sender:    sender,
		Content:   content,
		Status:    StatusSent,
		CreatedAt: now,
		UpdatedAt: now,
		Entity:    EntityType,
	}, nil
}

// CanTransition reports whether the state machine permits moving to the
// given status from the current one.
func (m *Message) CanTransition(to Status) bool {
	for _, allowed := range validTransitions[m.Status] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition moves the message to the given status and bumps UpdatedAt.
// A disallowed target, including the current status itself, fails with
// an INVALID_TRANSITION error and leaves the message unchanged.
func (m *Message) Transition(to Status) error {
	if !m.CanTransition(to) {
		return NewError(CodeInvalidTransition, "cannot transition from "+string(m.Status)+" to "+string(to), nil)
	}
	m.Status = to
	m.UpdatedAt = nowMillis()
	return nil
}

// IsRead reports whether the message reached its terminal state.
func (m *Message) IsRead() bool {
	return m.Status == StatusRead
}

// IsDelivered reports whether the message was delivered, including the
// READ state which implies delivery.
func (m *Message) IsDelivered() bool {
	return m.Status == StatusDelivered || m.Status == StatusRead
}

var newID = func() string {
	return uuid.NewString()
}

var nowMillis = func() int64 {
	return time.Now().UnixMilli()
}
