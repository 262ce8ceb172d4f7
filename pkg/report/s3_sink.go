package report

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client the sink uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Options locates the bucket's service. Empty fields fall back to the
// default AWS configuration chain.
type S3Options struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// NewS3Client builds an S3 client from the default AWS configuration,
// optionally pointed at an S3-compatible endpoint with static keys.
func NewS3Client(ctx context.Context, opts S3Options) (*s3.Client, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// S3Sink uploads each table as one CSV object under Prefix.
type S3Sink struct {
	client   S3API
	bucket   string
	prefix   string
	compress bool
}

// NewS3Sink creates a sink uploading to bucket.
func NewS3Sink(client S3API, bucket, prefix string, compress bool) *S3Sink {
	return &S3Sink{client: client, bucket: bucket, prefix: prefix, compress: compress}
}

// Key returns the object key of a table with the given name.
func (s *S3Sink) Key(name string) string {
	if s.compress {
		name += CompressedSuffix
	}
	return path.Join(s.prefix, path.Base(name))
}

// Write uploads the table, replacing any existing object.
func (s *S3Sink) Write(ctx context.Context, t *Table) error {
	data, err := encodeCSV(t, s.compress)
	if err != nil {
		return fmt.Errorf("encoding csv: %w", err)
	}

	contentType := "text/csv"
	if s.compress {
		contentType = "application/x-snappy-framed"
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.Key(t.Name)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("uploading s3://%s/%s: %w", s.bucket, s.Key(t.Name), err)
	}
	return nil
}

// Close is a no-op; the client is owned by the caller.
func (s *S3Sink) Close() error {
	return nil
}
