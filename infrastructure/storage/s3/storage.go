// Package s3 stores sound files in an S3 bucket.
package s3

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"ecnelisfly/application/ports"
)

// ObjectAPI is the subset of the S3 client the storage uses.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Presigner signs GET requests. *s3.PresignClient satisfies it.
type Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Storage implements ports.ObjectStorage.
type Storage struct {
	api       ObjectAPI
	presigner Presigner
	bucket    string
	logger    *zap.Logger
}

var _ ports.ObjectStorage = (*Storage)(nil)

// NewStorage creates a storage bound to bucket
func NewStorage(api ObjectAPI, presigner Presigner, bucket string, logger *zap.Logger) *Storage {
	return &Storage{
		api:       api,
		presigner: presigner,
		bucket:    bucket,
		logger:    logger.With(zap.String("bucket", bucket)),
	}
}

// NewFromClient wires a storage on an SDK client.
func NewFromClient(client *s3.Client, bucket string, logger *zap.Logger) *Storage {
	return NewStorage(client, s3.NewPresignClient(client), bucket, logger)
}

// Upload stores in.Body under in.Key, reporting progress as bytes are read
func (s *Storage) Upload(ctx context.Context, in ports.UploadInput) (string, error) {
	body := in.Body
	if in.OnProgress != nil {
		body = &progressReader{r: in.Body, total: in.Size, report: in.OnProgress}
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(in.Key),
		Body:   body,
	}
	if in.Size > 0 {
		input.ContentLength = aws.Int64(in.Size)
	}
	if in.ContentType != "" {
		input.ContentType = aws.String(in.ContentType)
	}

	if _, err := s.api.PutObject(ctx, input); err != nil {
		s.logger.Error("Upload failed", zap.String("key", in.Key), zap.Error(err))
		return "", fmt.Errorf("failed to upload %s: %w", in.Key, err)
	}

	s.logger.Info("Object uploaded", zap.String("key", in.Key), zap.Int64("size", in.Size))
	return in.Key, nil
}

// PresignGet returns a GET URL for key valid for ttl
func (s *Storage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return req.URL, nil
}

// Delete removes key. Deleting a missing key succeeds.
func (s *Storage) Delete(ctx context.Context, key string) error {
	if _, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	s.logger.Debug("Object deleted", zap.String("key", key))
	return nil
}

type progressReader struct {
	r           io.Reader
	total       int64
	transferred atomic.Int64
	report      ports.UploadProgress
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.report(p.transferred.Add(int64(n)), p.total)
	}
	return n, err
}
