package message

import "context"

// Page is one page of an index query. NextCursor is an opaque resume token;
// empty means the result set is exhausted.
type Page struct {
	Items      []*Message
	NextCursor string
}

// Repository defines the persistence operations for Message aggregates.
//
// It is implemented by infrastructure layers (DynamoDB here) while the
// service layer depends only on this interface.
type Repository interface {
	// Create persists a new message, failing with CONFLICT when an item
	// with the same id already exists.
	Create(ctx context.Context, sender, content string) (*Message, error)

	// FindByID returns (nil, nil) when no message with the id exists;
	// absence is not an error at this layer.
	FindByID(ctx context.Context, id string) (*Message, error)

	// FindBySender returns one page of the sender's messages in ascending
	// creation order, resuming from cursor when it is non-empty.
	FindBySender(ctx context.Context, sender string, limit int32, cursor string) (Page, error)

	// FindByDateRange returns one page of all messages created within
	// [startDate, endDate] in ascending creation order.
	FindByDateRange(ctx context.Context, startDate, endDate int64, limit int32, cursor string) (Page, error)

	// UpdateStatus conditionally writes status and updatedAt, failing with
	// NOT_FOUND when the id does not exist.
	UpdateStatus(ctx context.Context, id string, status Status) (*Message, error)
}
