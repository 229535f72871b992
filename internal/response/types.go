package response

import (
	"github.com/samber/lo"

	domain "message-api/internal/domain/message"
)

type HealthPayload struct {
	Status string `json:"status"`
}

type TokenPayload struct {
	AccessToken string `json:"access_token"`
}

// MessageDTO is the public-facing representation of a message. Timestamps
// stay as epoch milliseconds, matching the stored shape.
type MessageDTO struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Content   string `json:"content"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// MessagesPayload is one page of query results. NextCursor is omitted
// entirely when the result set is exhausted.
type MessagesPayload struct {
	Items      []MessageDTO `json:"items"`
	NextCursor string       `json:"nextCursor,omitempty"`
}

// FromDomainMessage converts a domain message into its DTO.
func FromDomainMessage(m *domain.Message) MessageDTO {
	return MessageDTO{
		ID:        m.ID,
		Sender:    m.Sender,
		Content:   m.Content,
		Status:    string(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainPage converts a repository page into the response payload.
func FromDomainPage(p domain.Page) MessagesPayload {
	return MessagesPayload{
		Items:      lo.Map(p.Items, func(m *domain.Message, _ int) MessageDTO { return FromDomainMessage(m) }),
		NextCursor: p.NextCursor,
	}
}
