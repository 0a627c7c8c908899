package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/huy1235588/Vaultrs/internal/client/tui"
)

const (
	logDir             = "logs"
	logFileName        = "client.log"
	logFilePermissions = 0666
	// Имя переменной окружения для URL сервера.
	serverURLEnvVar = "VAULTRS_SERVER_URL"
	// URL сервера по умолчанию.
	defaultServerURL = "http://localhost:8080"
	// Файл блокировки единственного экземпляра.
	lockFileName = "vaultrs.lock"
)

// Переменные для версии и даты сборки, устанавливаются через ldflags.
var (
	version = "dev" // Значение по умолчанию, если не установлено при сборке
	//nolint:gochecknoglobals // Устанавливается через ldflags при сборке
	buildDate = "unknown" // Значение по умолчанию
	//nolint:gochecknoglobals // Устанавливается через ldflags при сборке
	commitHash = "N/A" // Значение по умолчанию
)

// setupLogging настраивает логирование в файл logs/client.log.
// TUI занимает терминал, поэтому логи идут только в файл.
func setupLogging() {
	if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
		// Используем panic, так как без логов продолжать нет смысла
		panic("Не удалось создать директорию для логов: " + err.Error())
	}
	logPath := filepath.Join(logDir, logFileName)
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermissions)
	if err != nil {
		panic("Не удалось открыть лог-файл: " + err.Error())
	}
	// Файл остается открытым на время работы приложения, его закроет ОС
	// при завершении процесса.

	logHandler := slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug})
	slog.SetDefault(slog.New(logHandler))
	slog.Info("Логгер инициализирован", "path", logPath)
}

func main() {
	versionFlag := flag.Bool("version", false, "Показать версию и дату сборки")

	setupLogging()

	serverURLFlag := flag.String("server-url", defaultServerURL,
		"URL сервера Vaultrs (переопределяет "+serverURLEnvVar+")")
	debugModeFlag := flag.Bool("debug", false, "Включить режим отладки TUI")

	flag.Parse()

	// Если указан флаг --version, выводим информацию и выходим
	if *versionFlag {
		// Используем стандартный log для вывода в консоль, так как slog настроен на файл
		log.SetOutput(os.Stdout)
		log.SetFlags(0)
		log.Println("Vaultrs Client")
		log.Printf("Version: %s", version)
		log.Printf("Build Date: %s", buildDate)
		log.Printf("Commit Hash: %s", commitHash)
		os.Exit(0)
	}

	// Определение финального URL сервера
	finalURL := defaultServerURL
	source := "по умолчанию"

	// 1. Проверяем переменную окружения
	if envURL := os.Getenv(serverURLEnvVar); envURL != "" {
		finalURL = envURL
		source = "переменная окружения (" + serverURLEnvVar + ")"
	}

	// 2. Явно установленный флаг имеет приоритет
	urlFlagPresent := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "server-url" {
			urlFlagPresent = true
		}
	})
	if urlFlagPresent {
		finalURL = *serverURLFlag
		source = "флаг -server-url"
	}

	if finalURL == "" {
		slog.Error(
			"URL сервера не может быть пустым",
			"проверьте", "флаг -server-url и переменную окружения "+serverURLEnvVar,
		)
		os.Exit(1)
	}

	lockPath := filepath.Join(os.TempDir(), lockFileName)

	slog.Info("Запуск Vaultrs",
		"server_url", finalURL,
		"source", source,
		"debug_mode", *debugModeFlag,
		"lock_path", lockPath,
	)

	tui.Start(finalURL, lockPath, *debugModeFlag)
}
