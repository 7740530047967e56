package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/imrishuroy/go-restaurant-backoffice/internal/aws"
	"github.com/imrishuroy/go-restaurant-backoffice/internal/records"
)

type scanMock struct {
	aws.DynamoDBAPI
	items []map[string]types.AttributeValue
	err   error
	calls int
}

func (m *scanMock) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &dyn.ScanOutput{Items: m.items}, nil
}

func TestList_AppliesDefaults(t *testing.T) {
	var items []map[string]types.AttributeValue
	for _, doc := range []map[string]interface{}{
		{"item_id": "beans", "name": "Coffee Beans", "category": "Coffee", "stock": 3, "reorder_point": 20, "price": 12.5},
		{"item_id": "cups", "name": "Cups", "stock": "6"},
		{"item_id": "bad", "name": false},
	} {
		av, err := attributevalue.MarshalMap(doc)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		items = append(items, av)
	}
	mock := &scanMock{items: items}
	store := NewStore(mock, "inventory")

	got, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.calls != 1 {
		t.Fatalf("expected a single scan page, got %d calls", mock.calls)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if got[0].ReorderPoint != 20 || got[0].Price != 12.5 {
		t.Fatalf("unexpected item: %+v", got[0])
	}
	if got[1].Category != records.DefaultCategory || got[1].ReorderPoint != records.DefaultReorderPoint || got[1].Stock != 6 {
		t.Fatalf("expected defaults applied, got %+v", got[1])
	}
}

func TestList_ScanError(t *testing.T) {
	boom := errors.New("timeout")
	store := NewStore(&scanMock{err: boom}, "inventory")

	if _, err := store.List(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected scan error, got %v", err)
	}
}
