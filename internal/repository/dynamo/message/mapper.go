package message

import (
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"message-api/internal/cursor"
	domain "message-api/internal/domain/message"
)

// messageItem converts a domain Message into the persisted item shape.
// Every attribute is present on every stored item.
func messageItem(m *domain.Message) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id":        &types.AttributeValueMemberS{Value: m.ID},
		"sender":    &types.AttributeValueMemberS{Value: m.Sender},
		"content":   &types.AttributeValueMemberS{Value: m.Content},
		"status":    &types.AttributeValueMemberS{Value: string(m.Status)},
		"createdAt": numberAttr(m.CreatedAt),
		"updatedAt": numberAttr(m.UpdatedAt),
		"entity":    &types.AttributeValueMemberS{Value: m.Entity},
	}
}

func messageFromItem(item map[string]types.AttributeValue) (*domain.Message, error) {
	id, err := strAttr(item, "id")
	if err != nil {
		return nil, err
	}
	sender, err := strAttr(item, "sender")
	if err != nil {
		return nil, err
	}
	content, err := strAttr(item, "content")
	if err != nil {
		return nil, err
	}
	status, err := strAttr(item, "status")
	if err != nil {
		return nil, err
	}
	createdAt, err := int64Attr(item, "createdAt")
	if err != nil {
		return nil, err
	}
	updatedAt, err := int64Attr(item, "updatedAt")
	if err != nil {
		return nil, err
	}
	entity, _ := strAttr(item, "entity") // absent on index projections is tolerable
	if entity == "" {
		entity = domain.EntityType
	}

	parsed, ok := domain.ParseStatus(status)
	if !ok {
		return nil, fmt.Errorf("repository: item %q has unknown status %q", id, status)
	}

	return &domain.Message{
		ID:        id,
		Sender:    sender,
		Content:   content,
		Status:    parsed,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
		Entity:    entity,
	}, nil
}

// keyToCursor converts a last-evaluated key into the codec's scalar shape.
func keyToCursor(key map[string]types.AttributeValue) (map[string]cursor.Value, error) {
	out := make(map[string]cursor.Value, len(key))
	for name, attr := range key {
		switch v := attr.(type) {
		case *types.AttributeValueMemberS:
			out[name] = cursor.Value{S: v.Value}
		case *types.AttributeValueMemberN:
			out[name] = cursor.Value{N: v.Value}
		default:
			return nil, fmt.Errorf("repository: key attribute %q has unsupported type %T", name, attr)
		}
	}
	return out, nil
}

// cursorToKey converts a decoded cursor back into an exclusive start key.
func cursorToKey(key map[string]cursor.Value) (map[string]types.AttributeValue, error) {
	out := make(map[string]types.AttributeValue, len(key))
	for name, v := range key {
		switch {
		case v.S != "" && v.N == "":
			out[name] = &types.AttributeValueMemberS{Value: v.S}
		case v.N != "" && v.S == "":
			out[name] = &types.AttributeValueMemberN{Value: v.N}
		default:
			return nil, fmt.Errorf("repository: cursor attribute %q is not a single scalar", name)
		}
	}
	return out, nil
}

func numberAttr(n int64) *types.AttributeValueMemberN {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(n, 10)}
}

func strAttr(item map[string]types.AttributeValue, key string) (string, error) {
	v, ok := item[key]
	if !ok {
		return "", fmt.Errorf("repository: missing attribute %q", key)
	}
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("repository: attribute %q is not a string", key)
	}
	return s.Value, nil
}

func int64Attr(item map[string]types.AttributeValue, key string) (int64, error) {
	v, ok := item[key]
	if !ok {
		return 0, fmt.Errorf("repository: missing attribute %q", key)
	}
	n, ok := v.(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("repository: attribute %q is not a number", key)
	}
	parsed, err := strconv.ParseInt(n.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("repository: parse attribute %q: %w", key, err)
	}
	return parsed, nil
}
