package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ScanAll walks every page of a Scan and hands each item to fn. Returning an error from fn stops the walk.
func ScanAll(ctx context.Context, client DynamoDBAPI, input *dynamodb.ScanInput, fn func(item map[string]types.AttributeValue) error) error {
	p := dynamodb.NewScanPaginator(client, input)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("scan %s: %w", tableName(input), err)
		}
		for _, item := range page.Items {
			if err := fn(item); err != nil {
				return err
			}
		}
	}
	return nil
}

func tableName(input *dynamodb.ScanInput) string {
	if input == nil || input.TableName == nil {
		return ""
	}
	return *input.TableName
}
