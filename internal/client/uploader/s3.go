package uploader

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client the uploader uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Swappable in tests.
var (
	loadDefaultConfig = awsconfig.LoadDefaultConfig
	newS3Client       = func(cfg aws.Config, optFns ...func(*s3.Options)) S3API {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// S3Options configures the S3-compatible uploader. Endpoint is optional
// and enables path-style addressing for non-AWS stores (MinIO etc.).
type S3Options struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// S3Uploader stores artifacts in an S3-compatible bucket and derives
// public URLs from a configured base.
type S3Uploader struct {
	client        S3API
	bucket        string
	publicBaseURL string
}

func NewS3Uploader(ctx context.Context, opts *S3Options) (*S3Uploader, error) {
	cfg, err := loadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := newS3Client(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Uploader{
		client:        client,
		bucket:        opts.Bucket,
		publicBaseURL: strings.TrimRight(opts.PublicBaseURL, "/"),
	}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, filename string, data []byte, mimeType string) (string, error) {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(filename),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", filename, err)
	}
	return u.publicBaseURL + "/" + filename, nil
}
