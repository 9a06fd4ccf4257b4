package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/linktraq/linktraq/internal/models"
)

type FailureRepository interface {
	Create(ctx context.Context, f *models.PostFailure) (int64, error)
	GetByUserID(ctx context.Context, userID int64) ([]*models.PostFailure, error)
	GetByScheduleID(ctx context.Context, scheduleID int64) ([]*models.PostFailure, error)
}

type failureRepository struct {
	db *sql.DB
}

func NewFailureRepository(db *sql.DB) FailureRepository {
	return &failureRepository{db: db}
}

const failureColumns = `id, post_schedule_id, user_id, error_type, error_message, retry_count, is_final_failure, sns_platform, occurred_at`

func (r *failureRepository) Create(ctx context.Context, f *models.PostFailure) (int64, error) {
	query := `
		INSERT INTO post_failures (post_schedule_id, user_id, error_type, error_message, retry_count, is_final_failure, sns_platform, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, f.PostScheduleID, f.UserID, f.ErrorType,
		f.ErrorMessage, f.RetryCount, f.IsFinalFailure, f.Platform, f.OccurredAt).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *failureRepository) GetByUserID(ctx context.Context, userID int64) ([]*models.PostFailure, error) {
	query := `SELECT ` + failureColumns + ` FROM post_failures WHERE user_id = $1 ORDER BY occurred_at DESC`
	return r.list(ctx, query, userID)
}

func (r *failureRepository) GetByScheduleID(ctx context.Context, scheduleID int64) ([]*models.PostFailure, error) {
	query := `SELECT ` + failureColumns + ` FROM post_failures WHERE post_schedule_id = $1 ORDER BY occurred_at`
	return r.list(ctx, query, scheduleID)
}

func (r *failureRepository) list(ctx context.Context, query string, arg any) ([]*models.PostFailure, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var failures []*models.PostFailure
	for rows.Next() {
		var f models.PostFailure
		err := rows.Scan(&f.ID, &f.PostScheduleID, &f.UserID, &f.ErrorType, &f.ErrorMessage,
			&f.RetryCount, &f.IsFinalFailure, &f.Platform, &f.OccurredAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		failures = append(failures, &f)
	}
	return failures, rows.Err()
}
