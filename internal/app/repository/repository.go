package repository

import (
	"errors"
	"fmt"

	"backend/internal/app/ds"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	// ErrNotFound - запись не существует (404 на уровне API)
	ErrNotFound = errors.New("запись не найдена")
	// ErrStatusConflict - ожидаемый текущий статус не совпал,
	// запись уже изменена кем-то другим
	ErrStatusConflict = errors.New("статус уже изменён")
)

type Repository struct {
	db *gorm.DB
}

func New(dsn string) (*Repository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Автоматическая миграция всех таблиц
	err = db.AutoMigrate(
		&ds.User{},
		&ds.Auction{},
		&ds.Invitation{},
		&ds.Bid{},
		&ds.AuctionResult{},
		&ds.AuctionDocument{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{
		db: db,
	}, nil
}

// withTx возвращает копию репозитория поверх транзакции
func (r *Repository) withTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}
