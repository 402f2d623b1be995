package storage

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds everything needed to sign against an S3-compatible store
// (AWS or minio via S3_ENDPOINT).
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // optional; empty means AWS proper
	AccessKey string
	SecretKey string
	Expiry    time.Duration
}

// S3ConfigFromEnv reads S3_BUCKET, S3_REGION, S3_ENDPOINT, S3_ACCESS_KEY and
// S3_SECRET_KEY. Only the bucket is mandatory here; credential problems
// surface later as ErrConfiguration from signing.
func S3ConfigFromEnv() S3Config {
	return S3Config{
		Bucket:    os.Getenv("S3_BUCKET"),
		Region:    os.Getenv("S3_REGION"),
		Endpoint:  os.Getenv("S3_ENDPOINT"),
		AccessKey: os.Getenv("S3_ACCESS_KEY"),
		SecretKey: os.Getenv("S3_SECRET_KEY"),
		Expiry:    15 * time.Minute,
	}
}

// S3Signer implements Signer with aws-sdk-go-v2 presigned requests.
type S3Signer struct {
	cfg     S3Config
	client  *s3.Client
	presign *s3.PresignClient
}

// NewS3Signer builds the signing clients once. Returns ErrConfiguration when
// the bucket is unset or the AWS config cannot be assembled.
func NewS3Signer(ctx context.Context, cfg S3Config) (*S3Signer, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: S3_BUCKET is empty", ErrConfiguration)
	}
	if cfg.Expiry <= 0 {
		cfg.Expiry = 15 * time.Minute
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Signer{cfg: cfg, client: client, presign: s3.NewPresignClient(client)}, nil
}

func (s *S3Signer) SignURL(ctx context.Context, path string, verb Verb, contentType string) (string, error) {
	bucket := s.cfg.Bucket
	expire := s3.WithPresignExpires(s.cfg.Expiry)
	switch verb {
	case VerbPut:
		in := &s3.PutObjectInput{Bucket: &bucket, Key: &path}
		if contentType != "" {
			in.ContentType = &contentType
		}
		req, err := s.presign.PresignPutObject(ctx, in, expire)
		if err != nil {
			return "", fmt.Errorf("%w: presign PUT: %v", ErrConfiguration, err)
		}
		return req.URL, nil
	case VerbGet:
		req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{Bucket: &bucket, Key: &path}, expire)
		if err != nil {
			return "", fmt.Errorf("%w: presign GET: %v", ErrConfiguration, err)
		}
		return req.URL, nil
	case VerbDelete:
		req, err := s.presign.PresignDeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &bucket, Key: &path}, expire)
		if err != nil {
			return "", fmt.Errorf("%w: presign DELETE: %v", ErrConfiguration, err)
		}
		return req.URL, nil
	}
	return "", fmt.Errorf("unsupported verb %q", verb)
}

func (s *S3Signer) PublicURL(path string) string {
	if s.cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.cfg.Endpoint, "/"), s.cfg.Bucket, path)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, path)
}

func (s *S3Signer) DeleteObject(ctx context.Context, path string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &s.cfg.Bucket, Key: &path})
	return err
}
