package completion_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/gigmarket-backend/internal/infrastructure/storage"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigmarket-backend/internal/usecase/completion"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type fakeEvidenceStorage struct {
	saved       []byte
	contentType string
	err         error
}

func (s *fakeEvidenceStorage) Save(_ context.Context, ownerID uuid.UUID, name, contentType string, r io.Reader) (string, int64, error) {
	if s.err != nil {
		return "", 0, s.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, err
	}
	s.saved = data
	s.contentType = contentType
	return "https://cdn.example.com/" + ownerID.String() + "/" + name, int64(len(data)), nil
}

func (s *fakeEvidenceStorage) MaxUploadBytes() int64 { return 1024 }

type fakePresigner struct{}

func (fakePresigner) PresignUpload(_ context.Context, ownerID uuid.UUID, name string) (*storage.PresignedUpload, error) {
	return &storage.PresignedUpload{
		UploadURL: "https://s3.example.com/upload?sig=1",
		PublicURL: "https://s3.example.com/" + name,
		Key:       "completions/" + ownerID.String() + "/" + name,
		ExpiresIn: 900,
	}, nil
}

func TestUploadEvidence_StoresWholeFile(t *testing.T) {
	st := &fakeEvidenceStorage{}
	uc := completion.NewUploadEvidenceUseCase(st)

	content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{1}, 400)...)
	res, err := uc.Execute(context.Background(), uuid.New(), "shot.png", int64(len(content)), bytes.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, "image/png", res.ContentType)
	assert.Equal(t, int64(len(content)), res.Size)
	assert.Equal(t, content, st.saved)
	assert.Equal(t, "image/png", st.contentType)
}

func TestUploadEvidence_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		size     int64
		content  []byte
	}{
		{name: "пустой файл", fileName: "a.png", size: 0, content: nil},
		{name: "слишком большой", fileName: "a.png", size: 2048, content: pngHeader},
		{name: "неизвестный тип", fileName: "a.txt", size: 5, content: []byte("hello")},
		{name: "расширение не совпадает", fileName: "a.pdf", size: int64(len(pngHeader)), content: pngHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &fakeEvidenceStorage{}
			uc := completion.NewUploadEvidenceUseCase(st)

			_, err := uc.Execute(context.Background(), uuid.New(), tt.fileName, tt.size, bytes.NewReader(tt.content))
			require.Error(t, err)
			assert.True(t, apperror.IsValidation(err))
			assert.Nil(t, st.saved)
		})
	}
}

func TestUploadEvidence_StorageFailure(t *testing.T) {
	uc := completion.NewUploadEvidenceUseCase(&fakeEvidenceStorage{err: errors.New("disk full")})

	_, err := uc.Execute(context.Background(), uuid.New(), "doc.pdf", 16, strings.NewReader("%PDF-1.4 content"))
	require.Error(t, err)
	assert.Equal(t, apperror.ErrCodeStorageError, apperror.CodeOf(err))
}

func TestPresignEvidence(t *testing.T) {
	ownerID := uuid.New()

	t.Run("хранилище без прямой загрузки", func(t *testing.T) {
		_, err := completion.NewPresignEvidenceUseCase(nil).Execute(context.Background(), ownerID, "a.png")
		assert.Equal(t, apperror.ErrCodeBadRequest, apperror.CodeOf(err))
	})

	t.Run("имя без расширения", func(t *testing.T) {
		_, err := completion.NewPresignEvidenceUseCase(fakePresigner{}).Execute(context.Background(), ownerID, "archive")
		assert.True(t, apperror.IsValidation(err))
	})

	t.Run("ссылка выдана", func(t *testing.T) {
		upload, err := completion.NewPresignEvidenceUseCase(fakePresigner{}).Execute(context.Background(), ownerID, "a.zip")
		require.NoError(t, err)
		assert.Equal(t, 900, upload.ExpiresIn)
		assert.Contains(t, upload.Key, ownerID.String())
	})
}
