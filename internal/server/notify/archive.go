package notify

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/goccy/go-json"
)

// Certificate is the archived, self-describing record of a receipt.
type Certificate struct {
	ReceiptID string    `json:"receipt_id"`
	Algorithm string    `json:"algorithm"`
	Digest    string    `json:"digest"`
	Filename  string    `json:"filename"`
	CreatedAt time.Time `json:"created_at"`
	Link      string    `json:"link"`
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ArchiveSink stores a JSON proof certificate per receipt in S3-compatible
// object storage under proofs/<digest>/<receipt-id>.json.
type ArchiveSink struct {
	client objectPutter
	bucket string
}

func NewArchiveSink(client objectPutter, bucket string) *ArchiveSink {
	return &ArchiveSink{client: client, bucket: bucket}
}

// S3Options configures the archive's S3 client.
type S3Options struct {
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
}

var loadDefaultAWSConfig = config.LoadDefaultConfig

// NewS3Client builds a path-style S3 client suitable for MinIO as well as AWS.
func NewS3Client(ctx context.Context, o S3Options) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(o.Region)}
	if o.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(so *s3.Options) {
		if o.BaseEndpoint != "" {
			so.BaseEndpoint = aws.String(o.BaseEndpoint)
		}
		so.UsePathStyle = true
	}), nil
}

func (s *ArchiveSink) Name() string { return "archive" }

// ObjectKey returns the archive key of the certificate for e.
func ObjectKey(e Event) string {
	return fmt.Sprintf("proofs/%s/%s.json", e.Receipt.Digest, e.Receipt.ID)
}

func (s *ArchiveSink) Deliver(ctx context.Context, e Event) error {
	body, err := json.Marshal(Certificate{
		ReceiptID: e.Receipt.ID,
		Algorithm: "SHA-256",
		Digest:    e.Receipt.Digest,
		Filename:  e.Receipt.DisplayName(),
		CreatedAt: e.Receipt.CreatedAt.UTC(),
		Link:      e.Locator,
	})
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(ObjectKey(e)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put certificate: %w", err)
	}
	return nil
}
