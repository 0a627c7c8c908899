package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log"
	"strings"

	_ "image/gif" // Регистрация декодеров поддерживаемых форматов
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/huy1235588/Vaultrs/internal/server/repository"
	"github.com/huy1235588/Vaultrs/internal/server/storage"
	"github.com/huy1235588/Vaultrs/models"
)

const (
	// MaxImageSize — предельный размер файла обложки (10MB).
	MaxImageSize = 10 * 1024 * 1024

	// Максимальная сторона миниатюры в пикселях (пропорции сохраняются).
	thumbnailMaxSize = 300

	// Качество JPEG миниатюры (0-100).
	thumbnailJPEGQuality = 85
)

// ImageService определяет интерфейс для работы с обложками записей.
type ImageService interface {
	SetCoverFromUpload(ctx context.Context, userID, entryID int64, data io.Reader) (*models.Entry, error)
	SetCoverFromURL(ctx context.Context, userID, entryID int64, coverURL string) (*models.Entry, error)
	RemoveCover(ctx context.Context, userID, entryID int64) (*models.Entry, error)
	Thumbnail(ctx context.Context, userID, entryID int64) (string, error)
	// DeleteAsset лучшим усилием удаляет локальный файл обложки;
	// внешние URL не трогаются.
	DeleteAsset(ctx context.Context, coverPath string)
}

var _ ImageService = (*imageService)(nil)

type imageService struct {
	entryRepo repository.EntryRepository
	vaultRepo repository.VaultRepository
	files     storage.FileStorage
}

// NewImageService создает новый экземпляр сервиса обложек.
func NewImageService(entryRepo repository.EntryRepository, vaultRepo repository.VaultRepository, files storage.FileStorage) ImageService {
	return &imageService{entryRepo: entryRepo, vaultRepo: vaultRepo, files: files}
}

// ownedEntry загружает запись и проверяет владельца ее коллекции.
// Чужая запись неотличима от несуществующей.
func (s *imageService) ownedEntry(ctx context.Context, userID, entryID int64) (*models.Entry, error) {
	entry, err := s.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return nil, NewEntryNotFound(entryID)
		}
		return nil, NewDatabaseError(err)
	}
	if _, err := s.vaultRepo.GetByID(ctx, entry.VaultID, userID); err != nil {
		if errors.Is(err, repository.ErrVaultNotFound) {
			return nil, NewEntryNotFound(entryID)
		}
		return nil, NewDatabaseError(err)
	}
	return entry, nil
}

// SetCoverFromUpload сохраняет загруженный файл обложки. Формат
// определяется по содержимому; путь в БД — "{vault_id}/{entry_id}.{ext}".
func (s *imageService) SetCoverFromUpload(ctx context.Context, userID, entryID int64, data io.Reader) (*models.Entry, error) {
	entry, err := s.ownedEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	// Читаем не больше лимита плюс байт: лишний байт означает превышение.
	buf, err := io.ReadAll(io.LimitReader(data, MaxImageSize+1))
	if err != nil {
		return nil, NewInternalError(fmt.Errorf("ошибка чтения загружаемого файла: %w", err))
	}
	if len(buf) > MaxImageSize {
		return nil, NewValidationError("Image size exceeds 10MB limit (%dMB)", len(buf)/(1024*1024))
	}

	ext, contentType, err := detectImageFormat(buf)
	if err != nil {
		return nil, NewValidationError("Invalid image format. Supported: JPEG, PNG, WebP, GIF")
	}

	// Старый локальный файл удаляем до записи нового: расширение могло
	// измениться и новый ключ его не перекроет.
	if entry.CoverImagePath != nil {
		s.DeleteAsset(ctx, *entry.CoverImagePath)
	}

	relativePath := fmt.Sprintf("%d/%d.%s", entry.VaultID, entryID, ext)
	objectKey := "images/" + relativePath
	if err := s.files.UploadFile(ctx, objectKey, bytes.NewReader(buf), int64(len(buf)), contentType); err != nil {
		return nil, NewInternalError(err)
	}

	updated, err := s.entryRepo.Update(ctx, entryID, models.UpdateEntryParams{
		CoverImagePath: models.Some(relativePath),
	})
	if err != nil {
		return nil, NewDatabaseError(err)
	}

	log.Printf("[ImageService] Обложка записи %d сохранена (%s)", entryID, relativePath)
	return updated, nil
}

// SetCoverFromURL сохраняет внешний URL обложки как есть, без
// скачивания. Старый локальный файл при этом удаляется.
func (s *imageService) SetCoverFromURL(ctx context.Context, userID, entryID int64, coverURL string) (*models.Entry, error) {
	if !strings.HasPrefix(coverURL, "http://") && !strings.HasPrefix(coverURL, "https://") {
		return nil, NewValidationError("Invalid URL '%s': must start with http:// or https://", coverURL)
	}

	entry, err := s.ownedEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	if entry.CoverImagePath != nil {
		s.DeleteAsset(ctx, *entry.CoverImagePath)
	}

	updated, err := s.entryRepo.Update(ctx, entryID, models.UpdateEntryParams{
		CoverImagePath: models.Some(coverURL),
	})
	if err != nil {
		return nil, NewDatabaseError(err)
	}

	log.Printf("[ImageService] Обложка записи %d установлена по URL", entryID)
	return updated, nil
}

// RemoveCover убирает обложку записи и удаляет локальный файл.
func (s *imageService) RemoveCover(ctx context.Context, userID, entryID int64) (*models.Entry, error) {
	entry, err := s.ownedEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	if entry.CoverImagePath != nil {
		s.DeleteAsset(ctx, *entry.CoverImagePath)
	}

	updated, err := s.entryRepo.Update(ctx, entryID, models.UpdateEntryParams{
		CoverImagePath: models.Null[string](),
	})
	if err != nil {
		return nil, NewDatabaseError(err)
	}

	log.Printf("[ImageService] Обложка записи %d убрана", entryID)
	return updated, nil
}

// Thumbnail генерирует миниатюру обложки (максимум 300px по большей
// стороне, JPEG) и возвращает ее как data URL.
func (s *imageService) Thumbnail(ctx context.Context, userID, entryID int64) (string, error) {
	entry, err := s.ownedEntry(ctx, userID, entryID)
	if err != nil {
		return "", err
	}
	if entry.CoverImagePath == nil {
		return "", NewValidationError("Entry has no cover image")
	}
	coverPath := *entry.CoverImagePath
	if isExternalURL(coverPath) {
		// Внешние обложки клиент показывает по URL напрямую,
		// локального файла для них нет.
		return "", NewInternalError(fmt.Errorf("cover image file not found: %s", coverPath))
	}

	reader, err := s.files.DownloadFile(ctx, "images/"+coverPath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return "", NewInternalError(fmt.Errorf("cover image file not found: %s", coverPath))
		}
		return "", NewInternalError(err)
	}
	defer reader.Close()

	thumb, err := generateThumbnail(reader)
	if err != nil {
		return "", NewInternalError(err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(thumb), nil
}

// DeleteAsset удаляет локальный файл обложки лучшим усилием.
func (s *imageService) DeleteAsset(ctx context.Context, coverPath string) {
	if isExternalURL(coverPath) {
		return
	}
	if err := s.files.DeleteFile(ctx, "images/"+coverPath); err != nil {
		log.Printf("[ImageService] Не удалось удалить файл обложки '%s': %v", coverPath, err)
	}
}

func isExternalURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// detectImageFormat определяет формат по содержимому файла.
func detectImageFormat(buf []byte) (ext, contentType string, err error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(buf))
	if err != nil {
		return "", "", fmt.Errorf("нераспознанный формат изображения: %w", err)
	}
	switch format {
	case "jpeg":
		return "jpg", "image/jpeg", nil
	case "png":
		return "png", "image/png", nil
	case "webp":
		return "webp", "image/webp", nil
	case "gif":
		return "gif", "image/gif", nil
	default:
		return "", "", fmt.Errorf("неподдерживаемый формат изображения: %s", format)
	}
}

// generateThumbnail масштабирует изображение до 300px по большей
// стороне с сохранением пропорций и кодирует в JPEG.
func generateThumbnail(r io.Reader) ([]byte, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("ошибка декодирования обложки: %w", err)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > thumbnailMaxSize || h > thumbnailMaxSize {
		scale := float64(thumbnailMaxSize) / float64(max(w, h))
		w = int(float64(w) * scale)
		h = int(float64(h) * scale)
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}

	var out bytes.Buffer
	if err := jpeg.Encode(&out, src, &jpeg.Options{Quality: thumbnailJPEGQuality}); err != nil {
		return nil, fmt.Errorf("ошибка кодирования миниатюры в JPEG: %w", err)
	}
	return out.Bytes(), nil
}
