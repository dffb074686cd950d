package download

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/woozymasta/gmexport/internal/format"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog/log"
)

// S3Options configures the S3 sink. Endpoint targets MinIO or another
// S3 compatible store; static keys are used only when both are set.
type S3Options struct {
	Region    string `yaml:"region,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty"`
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
}

type putter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 uploads exports to a bucket.
type S3 struct {
	client putter
	bucket string
	prefix string
}

// NewS3 builds an S3 sink for a s3://bucket/prefix destination.
func NewS3(ctx context.Context, dest string, opts S3Options) (*S3, error) {
	bucket, prefix, err := parseS3(dest)
	if err != nil {
		return nil, err
	}

	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	endpoint := opts.Endpoint
	if endpoint != "" && !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3{client: client, bucket: bucket, prefix: prefix}, nil
}

// Save uploads body as prefix/name and returns its s3:// location.
func (s *S3) Save(ctx context.Context, name string, body []byte) (string, error) {
	key := path.Join(s.prefix, name)
	contentType := "application/octet-stream"
	if f, err := format.Parse(strings.TrimPrefix(path.Ext(name), ".")); err == nil {
		contentType = f.MIME()
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPrivate,
	})
	if err != nil {
		return "", fmt.Errorf("unable to upload %q to %q: %w", key, s.bucket, err)
	}

	location := "s3://" + s.bucket + "/" + key
	log.Debug().Str("location", location).Int("bytes", len(body)).Msg("Download uploaded")
	return location, nil
}

func parseS3(dest string) (bucket, prefix string, err error) {
	u, err := url.Parse(dest)
	if err != nil || u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("invalid s3 destination %q", dest)
	}
	return u.Host, strings.Trim(u.Path, "/"), nil
}
