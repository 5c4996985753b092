package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/roboricindustries/raycon-notify/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	objects map[string][]byte
	puts    int
	err     error
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.puts++
	if f.err != nil {
		return nil, f.err
	}
	b, _ := io.ReadAll(in.Body)
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = b
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	b, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func TestStore_PutGet(t *testing.T) {
	t.Parallel()

	fake := &fakeObjects{objects: map[string][]byte{}}
	s := &Store{client: fake, bucket: "payloads", prefix: "n/"}

	payload := []byte(`{"notification":{"title":"","body":"hi"}}`)
	ptr, err := s.Put(t.Context(), payload)
	require.NoError(t, err)
	assert.Equal(t, storage.Address(payload), ptr)
	assert.Contains(t, fake.objects, "payloads/n/"+ptr)

	got, err := s.Get(t.Context(), ptr)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	_, err = s.Get(t.Context(), "sha256-none")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_PutError(t *testing.T) {
	t.Parallel()

	fake := &fakeObjects{objects: map[string][]byte{}, err: errors.New("access denied")}
	s := &Store{client: fake, bucket: "payloads"}

	_, err := s.Put(t.Context(), []byte("{}"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
	assert.Equal(t, 1, fake.puts)
}

func TestNew_RequiresBucket(t *testing.T) {
	t.Parallel()

	_, err := New(t.Context(), Config{Region: "us-east-1"})
	require.Error(t, err)
}
