package store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripplan/internal/planner"
)

// fakeS3 is an in-memory bucket keyed by object key.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	testStoreContract(t, newS3Store(newFakeS3(), "bucket", "tripplan"))
}

func TestS3Store_ObjectKeys(t *testing.T) {
	fake := newFakeS3()
	s := newS3Store(fake, "bucket", "households/smith")

	require.NoError(t, s.Set(context.Background(), "trips", []byte("[]")))
	assert.Contains(t, fake.objects, "households/smith/trips.json")
}

func TestS3Store_GenericNotFound(t *testing.T) {
	fake := newFakeS3()
	fake.err = &smithy.GenericAPIError{Code: "NotFound", Message: "not found"}
	s := newS3Store(fake, "bucket", "")

	_, err := s.Get(context.Background(), "trips")
	assert.ErrorIs(t, err, planner.ErrNotFound)
}

func TestS3Store_BackendError(t *testing.T) {
	fake := newFakeS3()
	fake.err = errors.New("connection reset")
	s := newS3Store(fake, "bucket", "")

	_, err := s.Get(context.Background(), "trips")
	require.Error(t, err)
	assert.NotErrorIs(t, err, planner.ErrNotFound)
	assert.Error(t, s.Set(context.Background(), "trips", []byte("[]")))
	assert.Error(t, s.Remove(context.Background(), "trips"))
}
