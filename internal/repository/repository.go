package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

type Repository struct {
	db       *pgxpool.Pool
	Surprise SurpriseRepository
	Memory   MemoryRepository
	Settings SettingsRepository
}

func NewRepository(ctx context.Context, dsn string) (*Repository, error) {
	db, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return NewRepositoryWithPool(db), nil
}

func NewRepositoryWithPool(db *pgxpool.Pool) *Repository {
	return &Repository{
		db:       db,
		Surprise: NewSurpriseRepository(db),
		Memory:   NewMemoryRepository(db),
		Settings: NewSettingsRepository(db),
	}
}

func (r *Repository) Close() {
	r.db.Close()
}
