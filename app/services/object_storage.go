// Package services provides external service integrations and technical concerns like object storage, reference data and reports
package services

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/amirphl/card-transactions-generator/utils"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectStorage handles object uploads
type ObjectStorage interface {
	PutObject(ctx context.Context, bucket, key string, body []byte, contentType string) error
}

// S3API is the subset of the S3 client the storage calls
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ObjectStorage implements ObjectStorage on S3
type S3ObjectStorage struct {
	client S3API
}

// NewS3ObjectStorage creates a new S3-backed storage instance
func NewS3ObjectStorage(client S3API) ObjectStorage {
	return &S3ObjectStorage{client: client}
}

// PutObject writes body to bucket/key in a single request
func (s *S3ObjectStorage) PutObject(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to put s3://%s/%s: %w", bucket, key, err)
	}
	return nil
}

// MockObjectStorage implements ObjectStorage in memory for dry runs and testing
type MockObjectStorage struct {
	mu       sync.Mutex
	objects  map[string]MockObject
	attempts map[string]int
	failures map[string]int
	failAll  error
}

// MockObject represents a stored mock object
type MockObject struct {
	Bucket      string
	Key         string
	Body        []byte
	ContentType string
	StoredAt    time.Time
}

// NewMockObjectStorage creates a new mock object storage
func NewMockObjectStorage() *MockObjectStorage {
	return &MockObjectStorage{
		objects:  make(map[string]MockObject),
		attempts: make(map[string]int),
		failures: make(map[string]int),
	}
}

func objectPath(bucket, key string) string {
	return bucket + "/" + key
}

// PutObject stores the object unless a failure is pending for it
func (m *MockObjectStorage) PutObject(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	path := objectPath(bucket, key)
	m.attempts[path]++

	if m.failAll != nil {
		return m.failAll
	}
	if m.failures[path] > 0 {
		m.failures[path]--
		return fmt.Errorf("mock storage: injected failure for %s", path)
	}

	m.objects[path] = MockObject{
		Bucket:      bucket,
		Key:         key,
		Body:        bytes.Clone(body),
		ContentType: contentType,
		StoredAt:    utils.UTCNow(),
	}
	return nil
}

// FailNext makes the next n uploads of bucket/key fail
func (m *MockObjectStorage) FailNext(bucket, key string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[objectPath(bucket, key)] = n
}

// FailAll makes every upload fail with err until cleared with nil
func (m *MockObjectStorage) FailAll(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAll = err
}

// Attempts returns how many times bucket/key was uploaded, including failures
func (m *MockObjectStorage) Attempts(bucket, key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts[objectPath(bucket, key)]
}

// GetObject returns a stored object
func (m *MockObjectStorage) GetObject(bucket, key string) (MockObject, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.objects[objectPath(bucket, key)]
	return o, ok
}

// GetStoredPaths returns every stored bucket/key, sorted
func (m *MockObjectStorage) GetStoredPaths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.objects))
	for p := range m.objects {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// ClearObjects drops every stored object and counter
func (m *MockObjectStorage) ClearObjects() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects = make(map[string]MockObject)
	m.attempts = make(map[string]int)
	m.failures = make(map[string]int)
	m.failAll = nil
}
