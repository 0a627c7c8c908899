package repository

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // Драйвер SQLite, импортируем для регистрации
)

// NewSQLiteDB открывает (и при необходимости создает) базу данных SQLite
// и применяет миграции. Параметры соединения включают внешние ключи,
// WAL и таймаут ожидания блокировки записи.
func NewSQLiteDB(path string) (*sqlx.DB, error) {
	log.Printf("Открытие базы данных SQLite: %s", path)

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия БД: %w", err)
	}

	// У SQLite один писатель; одного соединения достаточно и это
	// исключает ошибки SQLITE_BUSY между соединениями пула.
	db.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		closeErr := db.Close()
		if closeErr != nil {
			log.Printf("Ошибка закрытия соединения с БД после неудачной миграции: %v", closeErr)
		}
		return nil, fmt.Errorf("ошибка применения миграций: %w", err)
	}

	log.Println("База данных SQLite готова.")
	return db, nil
}
