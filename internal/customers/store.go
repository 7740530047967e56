package customers

import (
	"context"
	"log"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/imrishuroy/go-restaurant-backoffice/internal/aws"
	"github.com/imrishuroy/go-restaurant-backoffice/internal/records"
)

// Store reads the customers table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
}

// NewStore creates a new customers Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{client: client, tableName: tableName}
}

// List returns every customer, normalized. Items that cannot be decoded are logged and skipped.
func (s *Store) List(ctx context.Context) ([]records.Customer, error) {
	out := []records.Customer{}
	err := aws.ScanAll(ctx, s.client, &dyn.ScanInput{TableName: &s.tableName}, func(item map[string]types.AttributeValue) error {
		var doc records.CustomerDocument
		if err := attributevalue.UnmarshalMap(item, &doc); err != nil {
			log.Printf("[customers] skip undecodable item table=%s err=%v", s.tableName, err)
			return nil
		}
		out = append(out, records.NormalizeCustomer(doc))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
