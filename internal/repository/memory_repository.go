package repository

import (
	"context"
	"errors"
	"fmt"

	"surprise_week/internal/domain/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type MemoryRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewMemoryRepository(db *pgxpool.Pool) *MemoryRepo {
	return &MemoryRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var memoryColumns = []string{
	"id",
	"date",
	"photo_url",
	"caption",
	"rotation",
	"position",
	"order_index",
	"created_at",
}

func (r *MemoryRepo) SaveMemory(ctx context.Context, m models.Memory) (uuid.UUID, error) {
	const op = "repository.MemoryRepo.SaveMemory"

	query, args, err := r.sb.Insert("memories").
		Columns(memoryColumns...).
		Values(
			m.ID,
			m.Date,
			m.PhotoURL,
			m.Caption,
			m.Rotation,
			m.Position,
			m.OrderIndex,
			m.CreatedAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	var id uuid.UUID
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (r *MemoryRepo) UpdateMemory(ctx context.Context, m models.Memory) error {
	const op = "repository.MemoryRepo.UpdateMemory"

	query, args, err := r.sb.Update("memories").
		Set("date", m.Date).
		Set("photo_url", m.PhotoURL).
		Set("caption", m.Caption).
		Set("rotation", m.Rotation).
		Set("position", m.Position).
		Set("order_index", m.OrderIndex).
		Where(sq.Eq{"id": m.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, ErrMemoryNotFound)
	}

	return nil
}

func (r *MemoryRepo) GetMemoryByID(ctx context.Context, id uuid.UUID) (*models.Memory, error) {
	const op = "repository.MemoryRepo.GetMemoryByID"

	query, args, err := r.sb.Select(memoryColumns...).
		From("memories").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var m models.Memory
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&m.ID,
		&m.Date,
		&m.PhotoURL,
		&m.Caption,
		&m.Rotation,
		&m.Position,
		&m.OrderIndex,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrMemoryNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &m, nil
}

func (r *MemoryRepo) ListMemories(ctx context.Context) ([]models.Memory, error) {
	const op = "repository.MemoryRepo.ListMemories"

	query, args, err := r.sb.Select(memoryColumns...).
		From("memories").
		OrderBy("order_index ASC", "created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var memories []models.Memory
	for rows.Next() {
		var m models.Memory
		err := rows.Scan(
			&m.ID,
			&m.Date,
			&m.PhotoURL,
			&m.Caption,
			&m.Rotation,
			&m.Position,
			&m.OrderIndex,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		memories = append(memories, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return memories, nil
}
