package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/AnneKitsune/inventory-managoat/internal/inventory"
)

// S3Store keeps each named inventory as a JSON document at
// <prefix><name>.json in an S3 bucket. S3 object replacement is
// atomic, so the save semantics match the filesystem backend.
type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

// NewS3Store creates an S3-backed store. When accessKey is empty the
// default AWS credential chain is used; otherwise the given static key
// pair is.
func NewS3Store(bucket, prefix, region, accessKey, secretKey string) (*S3Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 store requires s3_bucket to be set")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	if accessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return &S3Store{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		prefix:   prefix,
	}, nil
}

func (s *S3Store) objectKey(name string) string {
	return s.prefix + name + ".json"
}

// Load fetches the named inventory document. A missing object yields
// an empty snapshot.
func (s *S3Store) Load(name string) (*inventory.Snapshot, error) {
	out, err := s.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(name)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return inventory.EmptySnapshot(), nil
		}
		return nil, fmt.Errorf("fetching inventory %q: %w", name, err)
	}
	defer out.Body.Close()

	snapshot, err := decodeSnapshot(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading inventory %q: %w", name, err)
	}
	return snapshot, nil
}

// Save uploads the named inventory document, replacing any previous
// version.
func (s *S3Store) Save(name string, snapshot *inventory.Snapshot) error {
	var buf bytes.Buffer
	if err := encodeSnapshot(&buf, snapshot); err != nil {
		return err
	}

	_, err := s.uploader.Upload(context.Background(), &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(name)),
		Body:        &buf,
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("uploading inventory %q: %w", name, err)
	}
	return nil
}

// Close is a no-op for the S3 store.
func (s *S3Store) Close() error { return nil }

// Compile-time check that S3Store implements inventory.Store
var _ inventory.Store = (*S3Store)(nil)
