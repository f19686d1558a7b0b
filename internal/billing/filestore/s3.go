package filestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/cenkalti/backoff/v4"
	e "github.com/tenders-netizen/quotedesk/internal/billing/errors"
)

// requestTimeout bounds each call to the bucket; one retry is allowed
// on transient failure before the error surfaces.
const requestTimeout = 10 * time.Second

type S3Config struct {
	Bucket          string
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	// PublicBaseURL is where stored objects are reachable,
	// e.g. https://<bucket>.<account_id>.r2.cloudflarestorage.com
	PublicBaseURL string
}

// S3 stores blobs in an S3-compatible bucket (Cloudflare R2).
type S3 struct {
	client     *s3.Client
	bucket     string
	publicBase string
}

func NewS3(cfg *S3Config) (*S3, error) {
	if cfg.Bucket == "" || cfg.AccountID == "" || cfg.PublicBaseURL == "" {
		return nil, fmt.Errorf("%w: missing required S3 settings", e.ErrInvalidInput)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)

	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL:           endpoint,
			SigningRegion: "auto",
		}, nil
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
		awsconfig.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}

	return &S3{
		client:     s3.NewFromConfig(awsCfg),
		bucket:     cfg.Bucket,
		publicBase: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

func (s *S3) Put(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	key := filepath.Base(name)

	// Buffer the blob so the retry can rewind it. Uploads are capped
	// at a few MiB by the handler.
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: read upload: %v", e.ErrStorage, err)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	err = backoff.Retry(func() error {
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType),
		})
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 1), ctx))
	if err != nil {
		return "", fmt.Errorf("%w: upload %s: %v", e.ErrStorage, key, err)
	}

	return fmt.Sprintf("%s/%s", s.publicBase, url.PathEscape(key)), nil
}

func (s *S3) Get(ctx context.Context, name string) (io.ReadCloser, error) {
	key := filepath.Base(name)

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	// The object is drained inside the timeout so the caller gets a
	// reader that outlives the request context.
	var data []byte
	err := backoff.Retry(func() error {
		out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			var noKey *types.NoSuchKey
			if errors.As(err, &noKey) {
				return backoff.Permanent(e.ErrNotFound)
			}
			return err
		}
		defer out.Body.Close()
		data, err = io.ReadAll(out.Body)
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 1), ctx))
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, fmt.Errorf("%w: fetch %s: %v", e.ErrStorage, key, err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
