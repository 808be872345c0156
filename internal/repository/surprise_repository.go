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

type SurpriseRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewSurpriseRepository(db *pgxpool.Pool) *SurpriseRepo {
	return &SurpriseRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var surpriseColumns = []string{
	"id",
	"title",
	"unlock_date",
	"content_type",
	"content_payload",
	"media_urls",
	"locked_hint",
	"order_index",
	"created_at",
	"updated_at",
}

func (r *SurpriseRepo) SaveSurprise(ctx context.Context, s models.Surprise) (uuid.UUID, error) {
	const op = "repository.SurpriseRepo.SaveSurprise"

	query, args, err := r.sb.Insert("surprises").
		Columns(surpriseColumns...).
		Values(
			s.ID,
			s.Title,
			s.UnlockDate,
			s.ContentType,
			s.ContentPayload,
			s.MediaURLs,
			s.LockedHint,
			s.OrderIndex,
			s.CreatedAt,
			s.UpdatedAt,
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

func (r *SurpriseRepo) UpdateSurprise(ctx context.Context, s models.Surprise) error {
	const op = "repository.SurpriseRepo.UpdateSurprise"

	query, args, err := r.sb.Update("surprises").
		Set("title", s.Title).
		Set("unlock_date", s.UnlockDate).
		Set("content_type", s.ContentType).
		Set("content_payload", s.ContentPayload).
		Set("media_urls", s.MediaURLs).
		Set("locked_hint", s.LockedHint).
		Set("order_index", s.OrderIndex).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, ErrSurpriseNotFound)
	}

	return nil
}

func (r *SurpriseRepo) GetSurpriseByID(ctx context.Context, id uuid.UUID) (*models.Surprise, error) {
	const op = "repository.SurpriseRepo.GetSurpriseByID"

	query, args, err := r.sb.Select(surpriseColumns...).
		From("surprises").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var s models.Surprise
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&s.ID,
		&s.Title,
		&s.UnlockDate,
		&s.ContentType,
		&s.ContentPayload,
		&s.MediaURLs,
		&s.LockedHint,
		&s.OrderIndex,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrSurpriseNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &s, nil
}

func (r *SurpriseRepo) ListSurprises(ctx context.Context) ([]models.Surprise, error) {
	const op = "repository.SurpriseRepo.ListSurprises"

	query, args, err := r.sb.Select(surpriseColumns...).
		From("surprises").
		OrderBy("order_index ASC", "unlock_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var surprises []models.Surprise
	for rows.Next() {
		var s models.Surprise
		err := rows.Scan(
			&s.ID,
			&s.Title,
			&s.UnlockDate,
			&s.ContentType,
			&s.ContentPayload,
			&s.MediaURLs,
			&s.LockedHint,
			&s.OrderIndex,
			&s.CreatedAt,
			&s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		surprises = append(surprises, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return surprises, nil
}

func (r *SurpriseRepo) CountSurprises(ctx context.Context) (int, error) {
	const op = "repository.SurpriseRepo.CountSurprises"

	query, args, err := r.sb.Select("COUNT(*)").From("surprises").ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}
