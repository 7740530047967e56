package aws

import (
	"context"
	"fmt"
	"log"
	"os"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

// DefaultRegion is used when AWS_REGION is unset.
const DefaultRegion = "us-east-1"

// LoadAWSConfig loads the default credential chain for AWS_REGION. AWS_ENDPOINT_OVERRIDE points
// every client at a single endpoint, e.g. LocalStack during development.
func LoadAWSConfig(ctx context.Context) (sdkaws.Config, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = DefaultRegion
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
	)
	if err != nil {
		return cfg, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if endpoint := os.Getenv("AWS_ENDPOINT_OVERRIDE"); endpoint != "" {
		log.Printf("[aws] using endpoint override %s", endpoint)
		cfg.BaseEndpoint = sdkaws.String(endpoint)
	}

	return cfg, nil
}
