// Package storage хранит материалы, подтверждающие выполнение работы.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// ErrTooLarge возвращается, когда файл превышает лимит загрузки.
var ErrTooLarge = errors.New("storage: размер файла превышает лимит")

// PresignedUpload - ссылка для прямой загрузки файла в хранилище.
type PresignedUpload struct {
	UploadURL string
	PublicURL string
	Key       string
	ExpiresIn int
}

// readLimited читает поток целиком, не более maxBytes.
func readLimited(r io.Reader, maxBytes int64) (*bytes.Reader, int64, error) {
	var buf bytes.Buffer
	written, err := io.Copy(&buf, io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, 0, fmt.Errorf("storage: ошибка чтения файла: %w", err)
	}
	if written > maxBytes {
		return nil, 0, ErrTooLarge
	}
	return bytes.NewReader(buf.Bytes()), written, nil
}
