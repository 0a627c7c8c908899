package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound возвращается, когда объект отсутствует в хранилище.
var ErrObjectNotFound = errors.New("объект не найден в хранилище")

// FileStorage определяет интерфейс для хранилища файлов обложек.
// Ключ объекта — относительный путь вида "images/{vault_id}/{entry_id}.{ext}".
type FileStorage interface {
	UploadFile(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error
	DownloadFile(ctx context.Context, objectKey string) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, objectKey string) error
}
