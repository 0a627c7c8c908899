package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DiskStorage реализует FileStorage поверх локальной файловой системы.
// Используется по умолчанию; MinIO подключается опционально.
type DiskStorage struct {
	root string
}

var _ FileStorage = (*DiskStorage)(nil)

// NewDiskStorage создает хранилище с корнем в указанной директории.
func NewDiskStorage(root string) (*DiskStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("ошибка создания корня хранилища '%s': %w", root, err)
	}
	log.Printf("[Disk] Хранилище файлов инициализировано в '%s'", root)
	return &DiskStorage{root: root}, nil
}

// UploadFile атомарно сохраняет объект: данные пишутся во временный
// файл рядом и переименовываются на место только после полной записи.
func (s *DiskStorage) UploadFile(_ context.Context, objectKey string, reader io.Reader, _ int64, _ string) error {
	path, err := s.resolve(objectKey)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ошибка создания директории для '%s': %w", objectKey, err)
	}

	tmp := path + ".tmp-" + uuid.New().String()
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("ошибка создания временного файла: %w", err)
	}
	if _, err := io.Copy(f, reader); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("ошибка записи файла '%s': %w", objectKey, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("ошибка закрытия файла '%s': %w", objectKey, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("ошибка перемещения файла '%s': %w", objectKey, err)
	}

	log.Printf("[Disk] Файл '%s' сохранен", objectKey)
	return nil
}

// DownloadFile открывает объект на чтение.
func (s *DiskStorage) DownloadFile(_ context.Context, objectKey string) (io.ReadCloser, error) {
	path, err := s.resolve(objectKey)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("ошибка открытия файла '%s': %w", objectKey, err)
	}
	return f, nil
}

// DeleteFile удаляет объект; отсутствие файла ошибкой не считается.
func (s *DiskStorage) DeleteFile(_ context.Context, objectKey string) error {
	path, err := s.resolve(objectKey)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("ошибка удаления файла '%s': %w", objectKey, err)
	}
	return nil
}

// resolve превращает ключ объекта в абсолютный путь внутри корня,
// отвергая попытки выйти наружу через "..".
func (s *DiskStorage) resolve(objectKey string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(objectKey))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("недопустимый ключ объекта: %s", objectKey)
	}
	return filepath.Join(s.root, clean), nil
}
