// Package service exposes the message operations consumed by presentation
// adapters. It owns the query-mode disjunction and the status-transition
// preconditions; persistence is delegated to the repository.
package service

import (
	"context"
	"errors"
	"fmt"

	domain "message-api/internal/domain/message"
)

// defaultQueryLimit is applied when the caller leaves the page size unset.
const defaultQueryLimit = 10

// QueryParams selects one of the two supported query modes. Sender mode
// takes precedence when both a sender and a date range are supplied.
// Timestamps are milliseconds since epoch; zero means unset.
type QueryParams struct {
	Sender    string
	StartDate int64
	EndDate   int64
	Limit     int32
	Cursor    string
}

// MessageService is the externally visible message contract.
type MessageService interface {
	Create(ctx context.Context, sender, content string) (*domain.Message, error)
	FindByID(ctx context.Context, id string) (*domain.Message, error)
	QueryMessages(ctx context.Context, params QueryParams) (domain.Page, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Message, error)
}

type messageService struct {
	repo domain.Repository
}

// NewMessageService creates the message service over the given repository.
func NewMessageService(repo domain.Repository) (MessageService, error) {
	if repo == nil {
		return nil, errors.New("service: repository must not be nil")
	}
	return &messageService{repo: repo}, nil
}

func (s *messageService) Create(ctx context.Context, sender, content string) (*domain.Message, error) {
	return s.repo.Create(ctx, sender, content)
}

// FindByID turns the repository's absence signal into the user-visible
// NOT_FOUND error. The repository keeps returning (nil, nil) so internal
// callers can reuse it without forcing an error path.
func (s *messageService) FindByID(ctx context.Context, id string) (*domain.Message, error) {
	msg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, domain.NewError(domain.CodeNotFound, fmt.Sprintf("message %s not found", id), nil)
	}
	return msg, nil
}

func (s *messageService) QueryMessages(ctx context.Context, params QueryParams) (domain.Page, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	// Sender mode wins when both filters are present; documented
	// precedence, not an error.
	if params.Sender != "" {
		return s.repo.FindBySender(ctx, params.Sender, limit, params.Cursor)
	}
	if params.StartDate != 0 && params.EndDate != 0 {
		return s.repo.FindByDateRange(ctx, params.StartDate, params.EndDate, limit, params.Cursor)
	}

	return domain.Page{}, domain.NewError(domain.CodeInvalidQuery,
		"either sender or both startDate and endDate must be provided", nil)
}

// UpdateStatus loads the current message, rejects no-op requests as
// CONFLICT, checks the transition table, then issues the conditional write.
// A request for the current status is classified apart from an illegal
// transition so callers can tell a replay from a protocol violation.
func (s *messageService) UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Message, error) {
	current, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if current.Status == status {
		return nil, domain.NewError(domain.CodeConflict, fmt.Sprintf("status already '%s'", current.Status), nil)
	}
	if err := current.Transition(status); err != nil {
		return nil, err
	}

	return s.repo.UpdateStatus(ctx, id, status)
}
