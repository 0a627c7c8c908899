package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/huy1235588/Vaultrs/internal/server/handlers"
	"github.com/huy1235588/Vaultrs/internal/server/repository"
	"github.com/huy1235588/Vaultrs/internal/server/services"
	"github.com/huy1235588/Vaultrs/internal/server/storage"
)

const (
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 30 * time.Second
	defaultIdleTimeout  = 30 * time.Second

	defaultServerPort = "8080"
	envServerPort     = "SERVER_PORT"

	// Переменные окружения для TLS. Если обе заданы, сервер работает
	// по HTTPS.
	envTLSCertFile = "TLS_CERT_FILE"
	envTLSKeyFile  = "TLS_KEY_FILE"

	// Секрет для подписи JWT.
	envJWTSecret = "JWT_SECRET"

	// Путь к файлу БД SQLite.
	envDBPath     = "VAULTRS_DB_PATH"
	defaultDBPath = "vaultrs.db"

	// Хранилище обложек: каталог на диске либо MinIO, если задан
	// MINIO_ENDPOINT.
	envImageDir        = "VAULTRS_IMAGE_DIR"
	defaultImageDir    = "images"
	envMinioEndpoint   = "MINIO_ENDPOINT"
	envMinioUser       = "MINIO_USER"
	envMinioPassword   = "MINIO_PASSWORD"
	envMinioBucket     = "MINIO_BUCKET"
	defaultMinioUser   = "minioadmin"
	defaultMinioPass   = "minioadmin"
	defaultMinioBucket = "vaultrs-images"
	defaultMinioUseSSL = false
)

// Структура для хранения инициализированных зависимостей.
type dependencies struct {
	db        *sqlx.DB
	jwtSecret string
	handlers  handlers.Handlers
}

// main - точка входа. Вызывает run и обрабатывает ошибку.
func main() {
	if err := run(); err != nil {
		log.Printf("Ошибка выполнения сервера: %v", err)
		os.Exit(1)
	}
}

// run содержит основную логику запуска сервера и возвращает ошибку.
func run() error {
	log.Println("Запуск сервера Vaultrs...")

	deps, err := setupDependencies()
	if err != nil {
		return fmt.Errorf("ошибка инициализации зависимостей: %w", err)
	}
	defer func() {
		if closeErr := deps.db.Close(); closeErr != nil {
			log.Printf("Ошибка закрытия соединения с БД: %v", closeErr)
		}
	}()

	r := handlers.NewRouter(deps.handlers, deps.jwtSecret)

	port := getEnv(envServerPort, defaultServerPort)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", port),
		Handler:      r,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
	}

	certFile := getEnv(envTLSCertFile, "")
	keyFile := getEnv(envTLSKeyFile, "")
	if certFile != "" && keyFile != "" {
		log.Printf("Запуск HTTPS-сервера на порту %s...", port)
		err = server.ListenAndServeTLS(certFile, keyFile)
	} else {
		log.Printf("Запуск HTTP-сервера на порту %s (TLS не настроен)...", port)
		err = server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("ошибка запуска сервера: %w", err)
	}
	return nil
}

// setupDependencies инициализирует и возвращает все необходимые зависимости сервера.
func setupDependencies() (*dependencies, error) {
	deps := &dependencies{}
	var err error

	// 1. Подключение к БД (миграции применяются при старте)
	deps.db, err = repository.NewSQLiteDB(getEnv(envDBPath, defaultDBPath))
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации БД: %w", err)
	}
	log.Println("Соединение с БД успешно установлено.")

	// 2. Хранилище файлов обложек
	fileStorage, err := setupFileStorage()
	if err != nil {
		if dbCloseErr := deps.db.Close(); dbCloseErr != nil {
			log.Printf("Ошибка закрытия соединения с БД при ошибке хранилища: %v", dbCloseErr)
		}
		return nil, fmt.Errorf("ошибка инициализации хранилища файлов: %w", err)
	}

	deps.jwtSecret = getEnv(envJWTSecret, "")
	if deps.jwtSecret == "" {
		return nil, errors.New("не задан секрет для подписи JWT (JWT_SECRET)")
	}

	// 3. Создание репозиториев
	userRepo := repository.NewUserRepository(deps.db)
	vaultRepo := repository.NewVaultRepository(deps.db)
	fieldRepo := repository.NewFieldRepository(deps.db)
	entryRepo := repository.NewEntryRepository(deps.db)

	// 4. Создание сервисов
	authService := services.NewAuthService(userRepo, deps.jwtSecret)
	vaultService := services.NewVaultService(vaultRepo)
	fieldService := services.NewFieldService(fieldRepo, vaultRepo)
	imageService := services.NewImageService(entryRepo, vaultRepo, fileStorage)
	entryService := services.NewEntryService(entryRepo, fieldRepo, vaultRepo, imageService)
	relationService := services.NewRelationService(entryRepo, vaultRepo)

	// 5. Создание обработчиков
	deps.handlers = handlers.Handlers{
		Auth:     handlers.NewAuthHandler(authService),
		Vault:    handlers.NewVaultHandler(vaultService),
		Field:    handlers.NewFieldHandler(fieldService),
		Entry:    handlers.NewEntryHandler(entryService),
		Image:    handlers.NewImageHandler(imageService),
		Relation: handlers.NewRelationHandler(relationService),
	}

	return deps, nil
}

// setupFileStorage выбирает реализацию хранилища: MinIO, если задан
// endpoint, иначе каталог на локальном диске.
func setupFileStorage() (storage.FileStorage, error) {
	if endpoint := getEnv(envMinioEndpoint, ""); endpoint != "" {
		cfg := storage.MinioConfig{
			Endpoint:        endpoint,
			AccessKeyID:     getEnv(envMinioUser, defaultMinioUser),
			SecretAccessKey: getEnv(envMinioPassword, defaultMinioPass),
			UseSSL:          defaultMinioUseSSL,
			BucketName:      getEnv(envMinioBucket, defaultMinioBucket),
		}
		return storage.NewMinioClient(cfg)
	}
	return storage.NewDiskStorage(getEnv(envImageDir, defaultImageDir))
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
