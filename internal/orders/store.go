package orders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/imrishuroy/go-restaurant-backoffice/internal/analytics"
	"github.com/imrishuroy/go-restaurant-backoffice/internal/aws"
	"github.com/imrishuroy/go-restaurant-backoffice/internal/records"
)

// Store encapsulates operations on the orders table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new orders Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

var (
	// ErrStatusMismatch means the stored status was not the expected one.
	ErrStatusMismatch = errors.New("status mismatch/conditional failed")
	// ErrNotFound means no order has the given id.
	ErrNotFound = errors.New("order not found")
)

// List returns every order in the table, normalized. Items that cannot be decoded are logged and skipped.
func (s *Store) List(ctx context.Context) ([]records.Order, error) {
	return s.scan(ctx, func(records.Order) bool { return true })
}

// ListRange returns the orders created within r, both ends inclusive. Orders without a usable
// timestamp are left out. The filter runs after normalization because legacy rows store the
// creation time as epoch numbers under a different attribute.
func (s *Store) ListRange(ctx context.Context, r analytics.TimeRange) ([]records.Order, error) {
	return s.scan(ctx, func(o records.Order) bool {
		return o.HasTimestamp() && r.Covers(o.CreatedAt)
	})
}

func (s *Store) scan(ctx context.Context, keep func(records.Order) bool) ([]records.Order, error) {
	out := []records.Order{}
	err := aws.ScanAll(ctx, s.client, &dyn.ScanInput{TableName: &s.tableName}, func(item map[string]types.AttributeValue) error {
		var doc records.OrderDocument
		if err := attributevalue.UnmarshalMap(item, &doc); err != nil {
			log.Printf("[orders] skip undecodable item table=%s err=%v", s.tableName, err)
			return nil
		}
		if o := records.NormalizeOrder(doc); keep(o) {
			out = append(out, o)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches an order by order_id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, orderID string) (*records.Order, error) {
	key := map[string]types.AttributeValue{
		"order_id": &types.AttributeValueMemberS{Value: orderID},
	}
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var doc records.OrderDocument
	if err := attributevalue.UnmarshalMap(out.Item, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	o := records.NormalizeOrder(doc)
	return &o, nil
}

// UpdateStatus conditionally moves an order from expected to newStatus.
// Returns ErrNotFound for an unknown id and ErrStatusMismatch if the stored status differs.
func (s *Store) UpdateStatus(ctx context.Context, orderID string, expected, newStatus records.Status) error {
	now := s.nowFunc()
	input := &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
		UpdateExpression:         awsString("SET #s = :new, updated_at = :ua"),
		ExpressionAttributeNames: map[string]string{"#s": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":new":      &types.AttributeValueMemberS{Value: string(newStatus)},
			":expected": &types.AttributeValueMemberS{Value: string(expected)},
			":ua":       &types.AttributeValueMemberS{Value: now.UTC().Format(time.RFC3339)},
		},
		ConditionExpression:                 awsString("attribute_exists(order_id) AND #s = :expected"),
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	}

	_, err := s.client.UpdateItem(ctx, input)
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			if len(ccf.Item) == 0 {
				return ErrNotFound
			}
			return ErrStatusMismatch
		}
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
