package runs

import (
	"context"
	"errors"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// simpleMock is a very small in-memory mock for PutItem/GetItem/UpdateItem used in unit tests.
// It understands only the condition expressions the runs store issues.
type simpleMock struct {
	mu          sync.Mutex
	table       map[string]map[string]types.AttributeValue
	putCalls    int
	getCalls    int
	updateCalls int
	putErr      error
}

func newSimpleMock() *simpleMock {
	return &simpleMock{
		table: map[string]map[string]types.AttributeValue{},
	}
}

func status(item map[string]types.AttributeValue) string {
	if st, ok := item["status"].(*types.AttributeValueMemberS); ok {
		return st.Value
	}
	return ""
}

func runKey(m map[string]types.AttributeValue) (string, error) {
	keyAttr, ok := m["run_key"].(*types.AttributeValueMemberS)
	if !ok {
		return "", errors.New("missing key")
	}
	return keyAttr.Value, nil
}

func (m *simpleMock) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putCalls++
	if m.putErr != nil {
		return nil, m.putErr
	}
	k, err := runKey(params.Item)
	if err != nil {
		return nil, err
	}
	// attribute_not_exists(run_key) OR #s = :failed
	if existing, ok := m.table[k]; ok && params.ConditionExpression != nil {
		if status(existing) != StatusFailed {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	m.table[k] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *simpleMock) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	k, err := runKey(params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := m.table[k]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *simpleMock) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++
	k, err := runKey(params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := m.table[k]
	if !ok {
		return nil, errors.New("item not found")
	}
	// #s = :running
	if params.ConditionExpression != nil && status(item) != StatusInProgress {
		return nil, &types.ConditionalCheckFailedException{}
	}
	set := map[string]string{":rid": "report_id", ":ua": "updated_at", ":n": "note", ":exp": "expires_at", ":done": "status", ":failed": "status"}
	for placeholder, attr := range set {
		if v, ok := params.ExpressionAttributeValues[placeholder]; ok {
			item[attr] = v
		}
	}
	m.table[k] = item
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

func (m *simpleMock) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	return nil, errors.New("scan not supported")
}
