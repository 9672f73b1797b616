package artifact

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Config holds construction parameters. Credentials come from the
// default AWS chain (AWS_ACCESS_KEY_ID, shared config, instance role).
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // optional, for MinIO and friends
	Prefix    string
	PathStyle bool
}

// PutObjectAPI is the subset of *s3.Client the store needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads artifacts to a single bucket. All artifacts written by
// one store share an upload id kept in the object metadata.
type S3Store struct {
	client   PutObjectAPI
	bucket   string
	prefix   string
	uploadID uuid.UUID
}

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewS3StoreWithClient(client, cfg), nil
}

func NewS3StoreWithClient(client PutObjectAPI, cfg S3Config) *S3Store {
	return &S3Store{
		client:   client,
		bucket:   cfg.Bucket,
		prefix:   cfg.Prefix,
		uploadID: uuid.New(),
	}
}

func (s *S3Store) Driver() Driver { return DriverS3 }

// UploadID identifies the batch of artifacts written through s.
func (s *S3Store) UploadID() uuid.UUID { return s.uploadID }

func (s *S3Store) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

func (s *S3Store) Put(ctx context.Context, name string, data []byte, contentType string) (Info, error) {
	if err := checkName(name); err != nil {
		return Info{}, err
	}
	key := s.key(name)
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		Metadata:      map[string]string{"upload-id": s.uploadID.String()},
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return Info{}, fmt.Errorf("put s3://%s/%s: %w", s.bucket, key, err)
	}
	return Info{
		Name:        name,
		Location:    "s3://" + s.bucket + "/" + key,
		Size:        int64(len(data)),
		ContentType: contentType,
	}, nil
}
