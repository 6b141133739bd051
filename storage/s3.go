package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rpupo63/virtuality-fashion-backend/config"
)

// S3Config points at an S3-compatible bucket, e.g. the Supabase Storage S3 endpoint.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PublicURL       string
	CacheControl    string
}

// S3ConfigFromEnv reads the STORAGE_* keys.
func S3ConfigFromEnv(c map[string]string) S3Config {
	return S3Config{
		Bucket:          config.GetString(c, "STORAGE_BUCKET", "images"),
		Region:          config.GetString(c, "STORAGE_REGION", "us-east-1"),
		Endpoint:        config.GetString(c, "STORAGE_ENDPOINT", ""),
		AccessKeyID:     config.GetString(c, "STORAGE_ACCESS_KEY_ID", ""),
		SecretAccessKey: config.GetString(c, "STORAGE_SECRET_ACCESS_KEY", ""),
		PublicURL:       config.GetString(c, "STORAGE_PUBLIC_URL", ""),
		CacheControl:    config.GetString(c, "STORAGE_CACHE_CONTROL", "max-age=3600"),
	}
}

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Store struct {
	client putObjectAPI
	cfg    S3Config
}

// NewS3Store builds an S3 client. Static credentials win over the default
// chain when both keys are set.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("STORAGE_BUCKET is required")
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Store(client, cfg), nil
}

func newS3Store(client putObjectAPI, cfg S3Config) *S3Store {
	return &S3Store{client: client, cfg: cfg}
}

func (s *S3Store) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}
	if s.cfg.CacheControl != "" {
		input.CacheControl = aws.String(s.cfg.CacheControl)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

// PublicURL joins STORAGE_PUBLIC_URL and key. Without a public base the
// path-style endpoint URL is used.
func (s *S3Store) PublicURL(key string) string {
	base := s.cfg.PublicURL
	if base == "" {
		base = strings.TrimRight(s.cfg.Endpoint, "/") + "/" + s.cfg.Bucket
	}
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.TrimRight(base, "/") + "/" + strings.Join(segments, "/")
}
