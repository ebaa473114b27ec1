package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// R2Archive stores objects in a Cloudflare R2 bucket. R2 is S3-compatible,
// so it uses the AWS SDK v2 with a custom endpoint.
type R2Archive struct {
	client     *s3.Client
	bucketName string
	logger     *slog.Logger
}

// NewR2Archive builds an S3 client pointed at the account's R2 endpoint.
func NewR2Archive(cfg R2Config, logger *slog.Logger) (*R2Archive, error) {
	if cfg.AccountID == "" || cfg.BucketName == "" {
		return nil, errors.New("r2 archive requires an account id and bucket name")
	}

	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	// Format: https://{account_id}.r2.cloudflarestorage.com
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)

	awsCfg := aws.Config{
		Region: region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"", // session token not needed for R2
		),
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	logger.Info("initialized R2 archive",
		"bucket", cfg.BucketName,
		"endpoint", endpoint,
	)

	return &R2Archive{
		client:     client,
		bucketName: cfg.BucketName,
		logger:     logger,
	}, nil
}

func (a *R2Archive) Put(ctx context.Context, key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return &ArchiveError{Op: "Put", Key: key, Err: err}
	}

	result, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return &ArchiveError{Op: "Put", Key: key, Err: wrapS3Error(err)}
	}

	a.logger.Debug("archived object in R2",
		"key", key,
		"etag", aws.ToString(result.ETag),
	)
	return nil
}

func (a *R2Archive) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, &ArchiveError{Op: "Get", Key: key, Err: err}
	}

	result, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, &ArchiveError{Op: "Get", Key: key, Err: wrapS3Error(err)}
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, &ArchiveError{Op: "Get", Key: key, Err: fmt.Errorf("failed to read body: %w", err)}
	}
	return data, nil
}

// wrapS3Error converts S3 SDK errors to archive sentinel errors.
func wrapS3Error(err error) error {
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return ErrNotFound
	}
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return ErrNotFound
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return ErrNotFound
		case "AccessDenied", "Forbidden":
			return ErrAccessDenied
		}
	}

	if httpErr, ok := err.(interface{ HTTPStatusCode() int }); ok {
		switch httpErr.HTTPStatusCode() {
		case http.StatusNotFound:
			return ErrNotFound
		case http.StatusForbidden:
			return ErrAccessDenied
		}
	}

	return fmt.Errorf("R2 operation failed: %w", err)
}

var _ Archive = (*R2Archive)(nil)
