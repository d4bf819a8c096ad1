package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_Save(t *testing.T) {
	root := t.TempDir()
	st, err := NewLocalStorage(root, "http://localhost:8080/media/", 1)
	require.NoError(t, err)

	ownerID := uuid.New()
	url, size, err := st.Save(context.Background(), ownerID, "../../report final.pdf", "application/pdf", strings.NewReader("%PDF-1.4 test"))
	require.NoError(t, err)

	assert.Equal(t, int64(13), size)
	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/media/"+ownerID.String()+"/"))
	assert.True(t, strings.HasSuffix(url, "_report_final.pdf"))

	entries, err := os.ReadDir(filepath.Join(root, ownerID.String()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, strings.HasSuffix(entries[0].Name(), ".tmp"))
}

func TestLocalStorage_SaveTooLarge(t *testing.T) {
	root := t.TempDir()
	st, err := NewLocalStorage(root, "http://localhost/media", 1)
	require.NoError(t, err)

	big := strings.NewReader(strings.Repeat("x", 1024*1024+1))
	_, _, err = st.Save(context.Background(), uuid.New(), "big.bin", "", big)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestLocalStorage_CancelledContext(t *testing.T) {
	st, err := NewLocalStorage(t.TempDir(), "http://localhost/media", 1)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = st.Save(ctx, uuid.New(), "a.png", "", strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"photo.png":          "photo.png",
		"../../etc/passwd":   "passwd",
		`C:\tmp\evil.exe`:    "evil.exe",
		"":                   "evidence",
		"..":                 "evidence",
		"my work result.zip": "my_work_result.zip",
	}
	for in, want := range cases {
		assert.Equal(t, want, sanitizeFilename(in), in)
	}
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	f.body, _ = io.ReadAll(params.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Storage_Save(t *testing.T) {
	fake := &fakeS3{}
	st := &S3Storage{client: fake, bucket: "evidence", publicBaseURL: "https://cdn.example.com", maxUploadBytes: 1024}

	ownerID := uuid.New()
	url, size, err := st.Save(context.Background(), ownerID, "shot.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	require.NotNil(t, fake.input)
	key := aws.ToString(fake.input.Key)
	assert.True(t, strings.HasPrefix(key, "completions/"+ownerID.String()+"/"))
	assert.Equal(t, "evidence", aws.ToString(fake.input.Bucket))
	assert.Equal(t, "image/png", aws.ToString(fake.input.ContentType))
	assert.Equal(t, "png-bytes", string(fake.body))
	assert.Equal(t, int64(9), size)
	assert.Equal(t, "https://cdn.example.com/"+key, url)
}

func TestS3Storage_SaveErrors(t *testing.T) {
	t.Run("превышен лимит", func(t *testing.T) {
		st := &S3Storage{client: &fakeS3{}, bucket: "b", maxUploadBytes: 4}
		_, _, err := st.Save(context.Background(), uuid.New(), "a.txt", "", strings.NewReader("12345"))
		assert.ErrorIs(t, err, ErrTooLarge)
	})

	t.Run("ошибка S3", func(t *testing.T) {
		st := &S3Storage{client: &fakeS3{err: errors.New("boom")}, bucket: "b", maxUploadBytes: 64}
		_, _, err := st.Save(context.Background(), uuid.New(), "a.txt", "", strings.NewReader("1"))
		assert.Error(t, err)
	})
}

func TestDefaultPublicBase(t *testing.T) {
	assert.Equal(t, "https://evidence.s3.eu-central-1.amazonaws.com",
		defaultPublicBase(S3Config{Bucket: "evidence", Region: "eu-central-1"}))
	assert.Equal(t, "http://minio:9000/evidence",
		defaultPublicBase(S3Config{Bucket: "evidence", Endpoint: "http://minio:9000/"}))
}

func TestNewS3Storage_RequiresBucket(t *testing.T) {
	_, err := NewS3Storage(context.Background(), S3Config{Region: "us-east-1"})
	assert.Error(t, err)
}
