package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ecnelisfly/application/ports"
)

type MockObjectAPI struct {
	mock.Mock
}

func (m *MockObjectAPI) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	// Drain the body the way the SDK would.
	if in.Body != nil {
		_, _ = io.Copy(io.Discard, in.Body)
	}
	args := m.Called(ctx, in)
	return &s3.PutObjectOutput{}, args.Error(0)
}

func (m *MockObjectAPI) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, in)
	return &s3.DeleteObjectOutput{}, args.Error(0)
}

type stubPresigner struct {
	ttl time.Duration
	err error
}

func (p *stubPresigner) PresignGetObject(_ context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	if p.err != nil {
		return nil, p.err
	}
	opts := s3.PresignOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	p.ttl = opts.Expires
	return &v4.PresignedHTTPRequest{URL: "https://" + aws.ToString(in.Bucket) + ".example/" + aws.ToString(in.Key)}, nil
}

func TestUpload_ReportsProgress(t *testing.T) {
	api := new(MockObjectAPI)
	api.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.Bucket) == "sounds-bucket" &&
			aws.ToString(in.Key) == "sounds/a.mp3" &&
			aws.ToInt64(in.ContentLength) == 11 &&
			aws.ToString(in.ContentType) == "audio/mpeg"
	})).Return(nil)
	s := NewStorage(api, &stubPresigner{}, "sounds-bucket", zap.NewNop())

	var last, total int64
	key, err := s.Upload(context.Background(), ports.UploadInput{
		Key:         "sounds/a.mp3",
		Body:        strings.NewReader("hello sound"),
		Size:        11,
		ContentType: "audio/mpeg",
		OnProgress:  func(transferred, size int64) { last, total = transferred, size },
	})

	require.NoError(t, err)
	assert.Equal(t, "sounds/a.mp3", key)
	assert.Equal(t, int64(11), last)
	assert.Equal(t, int64(11), total)
}

func TestUpload_Failure(t *testing.T) {
	api := new(MockObjectAPI)
	api.On("PutObject", mock.Anything, mock.Anything).Return(errors.New("AccessDenied"))
	s := NewStorage(api, &stubPresigner{}, "sounds-bucket", zap.NewNop())

	_, err := s.Upload(context.Background(), ports.UploadInput{Key: "k", Body: strings.NewReader("x")})

	assert.ErrorContains(t, err, "AccessDenied")
}

func TestPresignGet(t *testing.T) {
	presigner := &stubPresigner{}
	s := NewStorage(new(MockObjectAPI), presigner, "sounds-bucket", zap.NewNop())

	url, err := s.PresignGet(context.Background(), "sounds/a.mp3", 15*time.Minute)

	require.NoError(t, err)
	assert.Equal(t, "https://sounds-bucket.example/sounds/a.mp3", url)
	assert.Equal(t, 15*time.Minute, presigner.ttl)
}

func TestDelete(t *testing.T) {
	api := new(MockObjectAPI)
	api.On("DeleteObject", mock.Anything, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return aws.ToString(in.Key) == "sounds/a.mp3"
	})).Return(nil)
	s := NewStorage(api, &stubPresigner{}, "sounds-bucket", zap.NewNop())

	require.NoError(t, s.Delete(context.Background(), "sounds/a.mp3"))
	api.AssertExpectations(t)
}
