package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/chatbay/ebay-media/pkg/ebaymedia"
)

// Config options for the S3 backend
type Config struct {
	Region          string // AWS region
	Bucket          string // S3 bucket name
	Prefix          string // Optional key prefix inside the bucket
	AccessKeyID     string // AWS access key ID
	SecretAccessKey string // AWS secret access key
	Endpoint        string // Optional custom endpoint for S3-compatible services
	UsePathStyle    bool   // Use path-style addressing (default: false)

	// Server-side encryption options
	EnableSSE    bool   // Enable server-side encryption
	SSEAlgorithm string // SSE algorithm (AES256 or aws:kms)
	SSEKMSKeyID  string // Optional KMS key ID for aws:kms algorithm

	// MinIO/S3-compatible service options
	CreateBucketIfNotExist bool // Create bucket if it doesn't exist
}

// Backend is an S3-compatible implementation of the
// ebaymedia.MediaStore interface
type Backend struct {
	client *s3.Client
	bucket string
	prefix string
	config Config
}

// New creates a new S3-compatible media store
func New(config Config) (*Backend, error) {
	if config.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}

	if config.Region == "" {
		config.Region = "us-east-1"
	}

	var awsCfg aws.Config
	var err error

	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				config.AccessKeyID,
				config.SecretAccessKey,
				"",
			)),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Options []func(*s3.Options)
	if config.Endpoint != "" {
		// Custom endpoint for S3-compatible services (MinIO, etc.)
		s3Options = append(s3Options, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(config.Endpoint)
			o.UsePathStyle = config.UsePathStyle
		})
	}

	backend := &Backend{
		client: s3.NewFromConfig(awsCfg, s3Options...),
		bucket: config.Bucket,
		prefix: strings.Trim(config.Prefix, "/"),
		config: config,
	}

	if config.CreateBucketIfNotExist {
		if err := backend.createBucketIfNotExists(context.Background()); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return backend, nil
}

func (b *Backend) key(name string) string {
	if b.prefix == "" {
		return name
	}
	return b.prefix + "/" + name
}

// createBucketIfNotExists creates the bucket if it doesn't exist
func (b *Backend) createBucketIfNotExists(ctx context.Context) error {
	_, err := b.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(b.bucket),
	})
	if err == nil {
		return nil
	}

	// Multiple error shapes for MinIO compatibility
	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) &&
		!strings.Contains(err.Error(), "BadRequest") &&
		!strings.Contains(err.Error(), "NoSuchBucket") {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	createInput := &s3.CreateBucketInput{
		Bucket: aws.String(b.bucket),
	}
	if b.config.Region != "us-east-1" {
		createInput.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(b.config.Region),
		}
	}

	if _, err := b.client.CreateBucket(ctx, createInput); err != nil {
		if strings.Contains(err.Error(), "BucketAlreadyExists") ||
			strings.Contains(err.Error(), "BucketAlreadyOwnedByYou") {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	return nil
}

func (b *Backend) applySSE(input *s3.PutObjectInput) {
	if !b.config.EnableSSE {
		return
	}
	switch b.config.SSEAlgorithm {
	case "AES256":
		input.ServerSideEncryption = types.ServerSideEncryptionAes256
	case "aws:kms":
		input.ServerSideEncryption = types.ServerSideEncryptionAwsKms
		if b.config.SSEKMSKeyID != "" {
			input.SSEKMSKeyId = aws.String(b.config.SSEKMSKeyID)
		}
	}
}

// Upload uploads image bytes to S3
func (b *Backend) Upload(ctx context.Context, name string, reader io.Reader) error {
	uploader := manager.NewUploader(b.client)

	input := &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(name)),
		Body:   reader,
	}
	if contentType := mime.TypeByExtension(filepath.Ext(name)); contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	b.applySSE(input)

	if _, err := uploader.Upload(ctx, input); err != nil {
		return &ebaymedia.StoreError{Backend: "s3", Name: name, Op: "upload", Err: err}
	}

	return nil
}

// Download downloads image bytes from S3
func (b *Backend) Download(ctx context.Context, name string) (io.ReadCloser, error) {
	result, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(name)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, &ebaymedia.StoreError{Backend: "s3", Name: name, Op: "download", Err: ebaymedia.ErrImageNotFound}
		}
		return nil, &ebaymedia.StoreError{Backend: "s3", Name: name, Op: "download", Err: err}
	}

	return result.Body, nil
}

// List returns every object under the configured prefix
func (b *Backend) List(ctx context.Context) ([]ebaymedia.MediaFile, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
	}
	if b.prefix != "" {
		input.Prefix = aws.String(b.prefix + "/")
	}

	var files []ebaymedia.MediaFile
	paginator := s3.NewListObjectsV2Paginator(b.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			var noSuchBucket *types.NoSuchBucket
			if errors.As(err, &noSuchBucket) {
				return nil, fmt.Errorf("%w: s3://%s", ebaymedia.ErrDirectoryMissing, b.bucket)
			}
			return nil, fmt.Errorf("failed to list bucket: %w", err)
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			name := strings.TrimPrefix(key, b.prefix+"/")
			if b.prefix == "" {
				name = key
			}
			if name == "" || strings.Contains(name, "/") {
				continue
			}
			file := ebaymedia.MediaFile{
				Name:        name,
				Size:        aws.ToInt64(obj.Size),
				Mode:        ebaymedia.FileMode,
				ContentType: mime.TypeByExtension(filepath.Ext(name)),
			}
			if obj.LastModified != nil {
				file.UpdatedAt = *obj.LastModified
			}
			files = append(files, file)
		}
	}

	return files, nil
}

// Meta retrieves object metadata from S3
func (b *Backend) Meta(ctx context.Context, name string) (*ebaymedia.MediaFile, error) {
	result, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(name)),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return nil, &ebaymedia.StoreError{Backend: "s3", Name: name, Op: "meta", Err: ebaymedia.ErrImageNotFound}
		}
		return nil, &ebaymedia.StoreError{Backend: "s3", Name: name, Op: "meta", Err: err}
	}

	file := &ebaymedia.MediaFile{
		Name:        name,
		Size:        aws.ToInt64(result.ContentLength),
		Mode:        ebaymedia.FileMode,
		ContentType: aws.ToString(result.ContentType),
	}
	if result.LastModified != nil {
		file.UpdatedAt = *result.LastModified
	}
	return file, nil
}

// Delete deletes an object from S3
func (b *Backend) Delete(ctx context.Context, name string) error {
	if _, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(name)),
	}); err != nil {
		return &ebaymedia.StoreError{Backend: "s3", Name: name, Op: "delete", Err: err}
	}

	return nil
}

// RepairPermissions is a no-op for object storage, which has no
// filesystem modes.
func (b *Backend) RepairPermissions(ctx context.Context) (*ebaymedia.RepairReport, error) {
	now := time.Now().UTC()
	return &ebaymedia.RepairReport{StartedAt: now, FinishedAt: now}, nil
}
