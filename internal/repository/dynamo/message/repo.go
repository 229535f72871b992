// Package message implements the message repository on DynamoDB.
//
// The table keys messages by id alone; the two access paths each have their
// own global secondary index: sender+createdAt for per-sender history and
// entity+createdAt for time-range queries across all messages.
package message

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"message-api/internal/cursor"
	domain "message-api/internal/domain/message"
	"message-api/internal/storage/dynamo"
)

// defaultDateRangeLimit caps date-range pages when the caller passes no
// explicit limit.
const defaultDateRangeLimit = 50

// Key attribute shapes of the two indexes, used to reject cursors that were
// issued by a different query shape before any store call is made.
var (
	senderIndexKeyAttrs    = []string{"createdAt", "id", "sender"}
	createdAtIndexKeyAttrs = []string{"createdAt", "entity", "id"}
)

// Store is the subset of the DynamoDB client the repository consumes.
type Store interface {
	PutIfAbsent(ctx context.Context, item map[string]types.AttributeValue) error
	GetByKey(ctx context.Context, id string) (map[string]types.AttributeValue, error)
	QueryIndex(ctx context.Context, spec dynamo.QuerySpec) (dynamo.QueryPage, error)
	ConditionalUpdate(ctx context.Context, id string, changes map[string]types.AttributeValue) (map[string]types.AttributeValue, error)
}

// Indexes names the two secondary indexes the repository queries.
type Indexes struct {
	SenderMessages string
	CreatedAt      string
}

// Repository persists Message aggregates in DynamoDB and classifies every
// store failure into a domain error before returning.
type Repository struct {
	store   Store
	indexes Indexes
}

// NewRepository creates a Repository over the given store client.
func NewRepository(store Store, indexes Indexes) (*Repository, error) {
	if store == nil {
		return nil, errors.New("repository: store must not be nil")
	}
	if indexes.SenderMessages == "" || indexes.CreatedAt == "" {
		return nil, errors.New("repository: index names must not be empty")
	}
	return &Repository{store: store, indexes: indexes}, nil
}

// Create builds a new Message and writes it with a duplicate-id guard.
// A rejected write means the generated id already exists, which indicates
// a replay or a bug; it surfaces as CONFLICT rather than an overwrite.
func (r *Repository) Create(ctx context.Context, sender, content string) (*domain.Message, error) {
	msg, err := domain.New(sender, content)
	if err != nil {
		return nil, err
	}

	if err := r.store.PutIfAbsent(ctx, messageItem(msg)); err != nil {
		if errors.Is(err, dynamo.ErrConditionFailed) {
			return nil, domain.NewError(domain.CodeConflict, fmt.Sprintf("message %s already exists", msg.ID), err)
		}
		return nil, domain.NewError(domain.CodeStorageFailure, "failed to create message", err)
	}
	return msg, nil
}

// FindByID reads one message by primary key. Absence returns (nil, nil).
func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Message, error) {
	item, err := r.store.GetByKey(ctx, id)
	if err != nil {
		return nil, domain.NewError(domain.CodeStorageFailure, "failed to find message by id", err)
	}
	if item == nil {
		return nil, nil
	}

	msg, err := messageFromItem(item)
	if err != nil {
		return nil, domain.NewError(domain.CodeStorageFailure, "failed to decode stored message", err)
	}
	return msg, nil
}

// FindBySender queries the sender index in ascending creation order. The
// upper bound createdAt <= now keeps clock-skewed future items out of the
// page.
func (r *Repository) FindBySender(ctx context.Context, sender string, limit int32, cur string) (domain.Page, error) {
	startKey, err := r.resumeKey(cur, senderIndexKeyAttrs)
	if err != nil {
		return domain.Page{}, err
	}

	page, err := r.store.QueryIndex(ctx, dynamo.QuerySpec{
		Index:        r.indexes.SenderMessages,
		KeyCondition: "sender = :sender AND createdAt <= :now",
		Values: map[string]types.AttributeValue{
			":sender": &types.AttributeValueMemberS{Value: sender},
			":now":    numberAttr(nowMillis()),
		},
		ExclusiveStartKey: startKey,
		Limit:             limit,
		Ascending:         true,
	})
	if err != nil {
		return domain.Page{}, domain.NewError(domain.CodeStorageFailure, "failed to find messages by sender", err)
	}
	return r.resultPage(page)
}

// FindByDateRange queries the creation-time index across all messages via
// the shared entity partition. A non-positive limit falls back to 50.
func (r *Repository) FindByDateRange(ctx context.Context, startDate, endDate int64, limit int32, cur string) (domain.Page, error) {
	if limit <= 0 {
		limit = defaultDateRangeLimit
	}

	startKey, err := r.resumeKey(cur, createdAtIndexKeyAttrs)
	if err != nil {
		return domain.Page{}, err
	}

	page, err := r.store.QueryIndex(ctx, dynamo.QuerySpec{
		Index:        r.indexes.CreatedAt,
		KeyCondition: "entity = :entity AND createdAt BETWEEN :startDate AND :endDate",
		Values: map[string]types.AttributeValue{
			":entity":    &types.AttributeValueMemberS{Value: domain.EntityType},
			":startDate": numberAttr(startDate),
			":endDate":   numberAttr(endDate),
		},
		ExclusiveStartKey: startKey,
		Limit:             limit,
		Ascending:         true,
	})
	if err != nil {
		return domain.Page{}, domain.NewError(domain.CodeStorageFailure, "failed to find messages by date range", err)
	}
	return r.resultPage(page)
}

// UpdateStatus conditionally writes status and updatedAt, guarded on the
// item existing. Two concurrent legal transitions are not serialized here:
// the last writer wins at the attribute level, and the transition table is
// enforced at the service's read-then-decide point.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Message, error) {
	item, err := r.store.ConditionalUpdate(ctx, id, map[string]types.AttributeValue{
		"status":    &types.AttributeValueMemberS{Value: string(status)},
		"updatedAt": numberAttr(nowMillis()),
	})
	if err != nil {
		if errors.Is(err, dynamo.ErrConditionFailed) {
			return nil, domain.NewError(domain.CodeNotFound, fmt.Sprintf("message %s not found", id), err)
		}
		return nil, domain.NewError(domain.CodeStorageFailure, "failed to update message status", err)
	}

	msg, err := messageFromItem(item)
	if err != nil {
		return nil, domain.NewError(domain.CodeStorageFailure, "failed to decode updated message", err)
	}
	return msg, nil
}

// resumeKey decodes a caller-supplied cursor and checks that its attribute
// names match the index being queried. A cursor from the other index decodes
// fine but would silently resume in the wrong scope, so shape mismatches are
// rejected up front.
func (r *Repository) resumeKey(cur string, wantAttrs []string) (map[string]types.AttributeValue, error) {
	if cur == "" {
		return nil, nil
	}

	decoded, err := cursor.Decode(cur)
	if err != nil {
		return nil, domain.NewError(domain.CodeMalformedCursor, "cursor is not decodable", err)
	}
	if !matchesKeyShape(decoded, wantAttrs) {
		return nil, domain.NewError(domain.CodeMalformedCursor, "cursor does not match the queried index", nil)
	}

	key, err := cursorToKey(decoded)
	if err != nil {
		return nil, domain.NewError(domain.CodeMalformedCursor, "cursor carries malformed key attributes", err)
	}
	return key, nil
}

func (r *Repository) resultPage(page dynamo.QueryPage) (domain.Page, error) {
	items := make([]*domain.Message, 0, len(page.Items))
	for _, item := range page.Items {
		msg, err := messageFromItem(item)
		if err != nil {
			return domain.Page{}, domain.NewError(domain.CodeStorageFailure, "failed to decode stored message", err)
		}
		items = append(items, msg)
	}

	out := domain.Page{Items: items}
	if len(page.LastEvaluatedKey) > 0 {
		key, err := keyToCursor(page.LastEvaluatedKey)
		if err != nil {
			return domain.Page{}, domain.NewError(domain.CodeStorageFailure, "failed to encode continuation key", err)
		}
		out.NextCursor = cursor.Encode(key)
	}
	return out, nil
}

func matchesKeyShape(key map[string]cursor.Value, wantAttrs []string) bool {
	if len(key) != len(wantAttrs) {
		return false
	}
	got := make([]string, 0, len(key))
	for name := range key {
		got = append(got, name)
	}
	sort.Strings(got)
	for i, name := range got {
		if name != wantAttrs[i] {
			return false
		}
	}
	return true
}

var nowMillis = func() int64 {
	return time.Now().UnixMilli()
}
