package completion

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/h2non/filetype"

	"github.com/ignatzorin/gigmarket-backend/internal/infrastructure/storage"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
)

// Разрешённые типы материалов, подтверждающих выполнение.
var allowedEvidenceTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
	"application/zip": true,
	"video/mp4":       true,
}

// sniffLength - сколько байт нужно filetype для определения типа
const sniffLength = 262

// EvidenceStorage сохраняет файл и возвращает публичный URL.
type EvidenceStorage interface {
	Save(ctx context.Context, ownerID uuid.UUID, originalName, contentType string, r io.Reader) (string, int64, error)
	MaxUploadBytes() int64
}

// EvidencePresigner выдаёт ссылку для прямой загрузки в хранилище.
type EvidencePresigner interface {
	PresignUpload(ctx context.Context, ownerID uuid.UUID, originalName string) (*storage.PresignedUpload, error)
}

type UploadedEvidence struct {
	URL         string
	ContentType string
	Size        int64
}

type UploadEvidenceUseCase struct {
	storage EvidenceStorage
}

func NewUploadEvidenceUseCase(storage EvidenceStorage) *UploadEvidenceUseCase {
	return &UploadEvidenceUseCase{storage: storage}
}

// Execute проверяет реальный тип файла по сигнатуре и сохраняет его.
func (uc *UploadEvidenceUseCase) Execute(ctx context.Context, ownerID uuid.UUID, fileName string, size int64, r io.Reader) (*UploadedEvidence, error) {
	if size <= 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "файл не может быть пустым")
	}
	if limit := uc.storage.MaxUploadBytes(); size > limit {
		return nil, apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("размер файла превышает лимит %d байт", limit))
	}

	head := make([]byte, sniffLength)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, apperror.Wrap(err, apperror.ErrCodeBadRequest, "не удалось прочитать файл")
	}
	head = head[:n]

	contentType, err := detectEvidenceType(fileName, head)
	if err != nil {
		return nil, err
	}

	url, written, err := uc.storage.Save(ctx, ownerID, fileName, contentType, io.MultiReader(bytes.NewReader(head), r))
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeStorageError, "не удалось сохранить файл")
	}

	return &UploadedEvidence{URL: url, ContentType: contentType, Size: written}, nil
}

// detectEvidenceType определяет тип по сигнатуре и сверяет его с расширением имени.
func detectEvidenceType(fileName string, head []byte) (string, error) {
	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown {
		return "", apperror.New(apperror.ErrCodeValidation, "не удалось определить тип файла")
	}
	if !allowedEvidenceTypes[kind.MIME.Value] {
		return "", apperror.New(apperror.ErrCodeValidation, fmt.Sprintf("неподдерживаемый тип файла (%s)", kind.MIME.Value))
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
	if ext == "jpeg" {
		ext = "jpg"
	}
	if ext != kind.Extension {
		return "", apperror.New(apperror.ErrCodeValidation,
			fmt.Sprintf("расширение файла (.%s) не соответствует реальному типу (.%s)", ext, kind.Extension))
	}
	return kind.MIME.Value, nil
}

type PresignEvidenceUseCase struct {
	presigner EvidencePresigner
}

// NewPresignEvidenceUseCase принимает nil, если хранилище не поддерживает прямую загрузку.
func NewPresignEvidenceUseCase(presigner EvidencePresigner) *PresignEvidenceUseCase {
	return &PresignEvidenceUseCase{presigner: presigner}
}

func (uc *PresignEvidenceUseCase) Execute(ctx context.Context, ownerID uuid.UUID, fileName string) (*storage.PresignedUpload, error) {
	if uc.presigner == nil {
		return nil, apperror.New(apperror.ErrCodeBadRequest, "прямая загрузка в хранилище не настроена")
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" || strings.TrimSpace(fileName) == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "укажите имя файла с расширением")
	}

	upload, err := uc.presigner.PresignUpload(ctx, ownerID, fileName)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeStorageError, "не удалось подготовить ссылку для загрузки")
	}
	return upload, nil
}
