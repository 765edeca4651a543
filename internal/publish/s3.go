// Package publish writes the enriched dataset to object storage.
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/fundsync/backend/internal/models"
)

// S3API is the slice of the S3 client the uploader needs.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader overwrite-puts the whole batch to a single fixed key.
// There is no incremental upload: a run publishes one complete JSON
// array or nothing.
type S3Uploader struct {
	client S3API
	bucket string
	key    string
}

func NewS3Uploader(ctx context.Context, region, bucket, key string) (*S3Uploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &S3Uploader{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		key:    key,
	}, nil
}

// NewS3UploaderWithClient injects a ready client; used in tests.
func NewS3UploaderWithClient(client S3API, bucket, key string) *S3Uploader {
	return &S3Uploader{client: client, bucket: bucket, key: key}
}

func (u *S3Uploader) Upload(ctx context.Context, stats []models.FundStats) error {
	body, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(u.key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", u.bucket, u.key, err)
	}

	fmt.Printf("[S3] Uploaded %d results to s3://%s/%s\n", len(stats), u.bucket, u.key)
	return nil
}
