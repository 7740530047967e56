package runs

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/imrishuroy/go-restaurant-backoffice/internal/aws"
)

// Store guards report runs against duplicate delivery.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	ttlWindow time.Duration // how long a run row is kept
	nowFunc   func() time.Time
}

// NewStore returns a configured Store.
// ttlWindow: how long finished rows are kept before DynamoDB TTL removes them (e.g., 48*time.Hour)
func NewStore(client aws.DynamoDBAPI, tableName string, ttlWindow time.Duration) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		ttlWindow: ttlWindow,
		nowFunc:   time.Now,
	}
}

// ErrConditionFailed indicates a conditional write failed (e.g., the run is no longer IN_PROGRESS)
var ErrConditionFailed = errors.New("conditional check failed")

// Begin claims a run by writing it as IN_PROGRESS. A FAILED run may be claimed again.
// Returns (true, nil) if the caller now owns the run and (false, nil) if another delivery
// already claimed or finished it (caller should Get to inspect).
func (s *Store) Begin(ctx context.Context, key, period string, attempt int) (bool, error) {
	now := s.nowFunc()
	run := Run{
		RunKey:    key,
		Status:    StatusInProgress,
		Period:    period,
		Attempts:  attempt,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.ttlWindow).Unix(),
	}

	item, err := attributevalue.MarshalMap(run)
	if err != nil {
		return false, fmt.Errorf("marshal run: %w", err)
	}

	input := &dyn.PutItemInput{
		TableName:                &s.tableName,
		Item:                     item,
		ConditionExpression:      awsString("attribute_not_exists(run_key) OR #s = :failed"),
		ExpressionAttributeNames: map[string]string{"#s": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":failed": &types.AttributeValueMemberS{Value: StatusFailed},
		},
	}

	_, err = s.client.PutItem(ctx, input)
	if err != nil {
		if isConditionFailed(err) {
			return false, nil
		}
		return false, fmt.Errorf("put item: %w", err)
	}
	return true, nil
}

// Get retrieves a run by key. If not found, returns (nil, nil).
func (s *Store) Get(ctx context.Context, key string) (*Run, error) {
	input := &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"run_key": &types.AttributeValueMemberS{Value: key},
		},
	}
	out, err := s.client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var run Run
	if err := attributevalue.UnmarshalMap(out.Item, &run); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	return &run, nil
}

// MarkDone moves an IN_PROGRESS run to DONE and records the report it produced.
// Returns ErrConditionFailed if the run is not IN_PROGRESS.
func (s *Store) MarkDone(ctx context.Context, key, reportID string) error {
	now := s.nowFunc()
	input := &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"run_key": &types.AttributeValueMemberS{Value: key},
		},
		UpdateExpression: awsString("SET #s = :done, report_id = :rid, updated_at = :ua"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":done":    &types.AttributeValueMemberS{Value: StatusDone},
			":running": &types.AttributeValueMemberS{Value: StatusInProgress},
			":rid":     &types.AttributeValueMemberS{Value: reportID},
			":ua":      &types.AttributeValueMemberS{Value: now.UTC().Format(time.RFC3339)},
		},
		ConditionExpression: awsString("#s = :running"),
		ReturnValues:        types.ReturnValueUpdatedNew,
	}
	_, err := s.client.UpdateItem(ctx, input)
	if err != nil {
		if isConditionFailed(err) {
			return ErrConditionFailed
		}
		return fmt.Errorf("update item (mark done): %w", err)
	}
	return nil
}

// MarkFailed marks the run as FAILED with a note so a redelivery can claim it again.
func (s *Store) MarkFailed(ctx context.Context, key, note string) error {
	now := s.nowFunc()
	input := &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"run_key": &types.AttributeValueMemberS{Value: key},
		},
		UpdateExpression: awsString("SET #s = :failed, note = :n, updated_at = :ua, expires_at = :exp"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":failed": &types.AttributeValueMemberS{Value: StatusFailed},
			":n":      &types.AttributeValueMemberS{Value: note},
			":ua":     &types.AttributeValueMemberS{Value: now.UTC().Format(time.RFC3339)},
			":exp":    &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Add(s.ttlWindow).Unix(), 10)},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	}
	_, err := s.client.UpdateItem(ctx, input)
	if err != nil {
		return fmt.Errorf("update item (mark failed): %w", err)
	}
	return nil
}

func isConditionFailed(err error) bool {
	var ae smithy.APIError
	return errors.As(err, &ae) && ae.ErrorCode() == "ConditionalCheckFailedException"
}

// Helper
func awsString(s string) *string { return &s }
