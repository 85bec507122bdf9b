package services

import (
	"context"
	"fmt"
	"time"

	"github.com/amirphl/card-transactions-generator/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// loadAWSConfig resolves credentials from the default chain. Container
// credential endpoints can be slow right after start, hence the adaptive retryer.
func loadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithRetryer(func() aws.Retryer {
			return retry.NewAdaptiveMode(func(o *retry.AdaptiveModeOptions) {
				o.StandardOptions = append(o.StandardOptions, func(so *retry.StandardOptions) {
					so.MaxAttempts = 5
					so.MaxBackoff = 10 * time.Second
				})
			})
		}),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config for %s: %w", region, err)
	}
	return cfg, nil
}

// NewS3Client creates the S3 client used for uploads
func NewS3Client(ctx context.Context, cfg config.StorageConfig) (*s3.Client, error) {
	awsCfg, err := loadAWSConfig(ctx, cfg.Region)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(awsCfg, s3Options(cfg)), nil
}

// s3Options makes each PutObject a single request. Upload retries belong to
// the upload state machine, which counts them.
func s3Options(cfg config.StorageConfig) func(*s3.Options) {
	return func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
		o.RetryMaxAttempts = 1
	}
}

// NewDynamoDBClient creates the DynamoDB client used for coordination and reference reads
func NewDynamoDBClient(ctx context.Context, cfg config.PartitionConfig) (*dynamodb.Client, error) {
	awsCfg, err := loadAWSConfig(ctx, cfg.Region)
	if err != nil {
		return nil, err
	}
	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}
