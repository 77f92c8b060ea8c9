package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"fleet/internal/config"
)

// Uploader stores objects in an S3 bucket.
type Uploader struct {
	client           *s3.Client
	bucket           string
	region           string
	cloudFrontDomain string
}

// NewUploader builds an S3 client from static credentials, or from the
// default AWS credential chain when no key is configured.
func NewUploader(ctx context.Context, cfg config.StorageConfig) (*Uploader, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	sdkConfig, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Uploader{
		client:           s3.NewFromConfig(sdkConfig),
		bucket:           cfg.Bucket,
		region:           cfg.Region,
		cloudFrontDomain: cfg.CloudFrontDomain,
	}, nil
}

// UploadFile uploads body under objectKey and returns its public URL.
func (u *Uploader) UploadFile(ctx context.Context, body io.Reader, objectKey, contentType string) (string, error) {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(objectKey),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return ObjectURL(u.bucket, u.region, u.cloudFrontDomain, objectKey), nil
}

// ObjectURL returns the CloudFront URL of an object when a distribution is
// configured, and the regional S3 URL otherwise.
func ObjectURL(bucket, region, cloudFrontDomain, objectKey string) string {
	if cloudFrontDomain != "" {
		return fmt.Sprintf("https://%s/%s", cloudFrontDomain, objectKey)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, objectKey)
}
