// Package dynamo wraps the DynamoDB primitives consumed by the message
// repository: conditional put, point get, index query and conditional
// update. Table and index names are injected; the client performs no
// discovery.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrConditionFailed reports that the store rejected a conditional write.
// Callers rely on telling it apart from transport failures: the repository
// maps it to CONFLICT or NOT_FOUND depending on the operation.
var ErrConditionFailed = errors.New("dynamo: conditional check failed")

// dynamodbAPI is the minimal DynamoDB interface required by Client.
// Defined here for testability.
type dynamodbAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// QuerySpec describes one page-sized range query against a named index.
type QuerySpec struct {
	Index             string
	KeyCondition      string
	Names             map[string]string
	Values            map[string]types.AttributeValue
	ExclusiveStartKey map[string]types.AttributeValue
	Limit             int32
	Ascending         bool
}

// QueryPage is the result of one QueryIndex call. LastEvaluatedKey is nil
// when the range is exhausted.
type QueryPage struct {
	Items            []map[string]types.AttributeValue
	LastEvaluatedKey map[string]types.AttributeValue
}

// Client wraps a DynamoDB table for message persistence.
type Client struct {
	api       dynamodbAPI
	tableName string
}

// New creates a new storage Client.
func New(api dynamodbAPI, tableName string) (*Client, error) {
	if api == nil {
		return nil, errors.New("dynamo: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("dynamo: table name must not be empty")
	}
	return &Client{api: api, tableName: tableName}, nil
}

// PutIfAbsent writes item only when no item with the same id exists.
// An existing id surfaces as ErrConditionFailed, never a silent overwrite.
func (c *Client) PutIfAbsent(ctx context.Context, item map[string]types.AttributeValue) error {
	if _, ok := item["id"]; !ok {
		return errors.New("dynamo: PutIfAbsent: item id is required")
	}

	_, err := c.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(c.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return classify("PutIfAbsent", err)
	}
	return nil
}

// GetByKey reads the item with the given id. A missing item returns
// (nil, nil).
func (c *Client) GetByKey(ctx context.Context, id string) (map[string]types.AttributeValue, error) {
	out, err := c.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, classify("GetByKey", err)
	}
	if out == nil || len(out.Item) == 0 {
		return nil, nil
	}
	return out.Item, nil
}

// QueryIndex runs one range query against a secondary index. It never
// returns more than spec.Limit items and never loops pages internally;
// resumption is driven by the caller through ExclusiveStartKey.
func (c *Client) QueryIndex(ctx context.Context, spec QuerySpec) (QueryPage, error) {
	if strings.TrimSpace(spec.Index) == "" {
		return QueryPage{}, errors.New("dynamo: QueryIndex: index name is required")
	}

	in := &dynamodb.QueryInput{
		TableName:                 aws.String(c.tableName),
		IndexName:                 aws.String(spec.Index),
		KeyConditionExpression:    aws.String(spec.KeyCondition),
		ExpressionAttributeValues: spec.Values,
		ScanIndexForward:          aws.Bool(spec.Ascending),
		Limit:                     aws.Int32(spec.Limit),
		ExclusiveStartKey:         spec.ExclusiveStartKey,
	}
	if len(spec.Names) > 0 {
		in.ExpressionAttributeNames = spec.Names
	}

	out, err := c.api.Query(ctx, in)
	if err != nil {
		return QueryPage{}, classify("QueryIndex", err)
	}
	return QueryPage{
		Items:            out.Items,
		LastEvaluatedKey: out.LastEvaluatedKey,
	}, nil
}

// ConditionalUpdate sets the given attributes on the item with the given
// id and returns the full updated item. The write is guarded on the item
// already existing; a missing id surfaces as ErrConditionFailed.
func (c *Client) ConditionalUpdate(ctx context.Context, id string, changes map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	if len(changes) == 0 {
		return nil, errors.New("dynamo: ConditionalUpdate: no attribute changes")
	}

	attrs := make([]string, 0, len(changes))
	for name := range changes {
		attrs = append(attrs, name)
	}
	sort.Strings(attrs)

	names := make(map[string]string, len(attrs))
	values := make(map[string]types.AttributeValue, len(attrs))
	sets := make([]string, 0, len(attrs))
	for i, name := range attrs {
		nameRef := fmt.Sprintf("#a%d", i)
		valueRef := fmt.Sprintf(":a%d", i)
		names[nameRef] = name
		values[valueRef] = changes[name]
		sets = append(sets, nameRef+" = "+valueRef)
	}

	out, err := c.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(c.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		UpdateExpression:          aws.String("SET " + strings.Join(sets, ", ")),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ConditionExpression:       aws.String("attribute_exists(id) AND attribute_exists(createdAt)"),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, classify("ConditionalUpdate", err)
	}
	return out.Attributes, nil
}

// classify keeps the condition-failed signal inspectable and wraps every
// other SDK failure opaquely with the operation name.
func classify(op string, err error) error {
	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		return fmt.Errorf("dynamo: %s: %w", op, ErrConditionFailed)
	}
	return fmt.Errorf("dynamo: %s: %w", op, err)
}
