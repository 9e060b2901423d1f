package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Sink stores a packet and returns where it ended up.
type Sink interface {
	Put(ctx context.Context, p Packet) (string, error)
}

// FileSink writes packets into Dir, creating it when needed.
type FileSink struct {
	Dir string
}

func (f FileSink) Put(_ context.Context, p Packet) (string, error) {
	dir := f.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	dest := filepath.Join(dir, p.Name)
	if err := os.WriteFile(dest, p.Data, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", dest, err)
	}
	return dest, nil
}

// S3Config holds the bucket settings for S3Sink. Credentials fall back to the
// default AWS chain when AccessKeyID is empty.
type S3Config struct {
	Bucket          string
	Region          string
	Prefix          string
	Endpoint        string // optional; S3-compatible endpoint such as MinIO
	AccessKeyID     string
	SecretAccessKey string
	PathStyle       bool
}

// S3Sink uploads packets to a bucket.
type S3Sink struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Sink builds an S3 client from cfg. Extra options are applied after the
// config-derived ones.
func NewS3Sink(ctx context.Context, cfg S3Config, optFns ...func(*s3.Options)) (*S3Sink, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	base := func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}
	client := s3.NewFromConfig(awsCfg, append([]func(*s3.Options){base}, optFns...)...)
	return &S3Sink{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// Put uploads the packet under prefix/name and returns its s3:// URI.
func (s *S3Sink) Put(ctx context.Context, p Packet) (string, error) {
	key := p.Name
	if s.prefix != "" {
		key = path.Join(s.prefix, p.Name)
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(p.Data),
		ContentType: aws.String(p.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}
