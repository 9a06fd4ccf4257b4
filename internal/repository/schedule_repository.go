package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/linktraq/linktraq/internal/models"
)

type ScheduleRepository interface {
	Create(ctx context.Context, s *models.PostSchedule) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.PostSchedule, error)
	ListDue(ctx context.Context, now time.Time) ([]*models.PostSchedule, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.PostSchedule, error)
	ClaimProcessing(ctx context.Context, id int64) (bool, error)
	MarkPublished(ctx context.Context, id int64, publishedAt time.Time) error
	ScheduleRetry(ctx context.Context, id int64, lastError string, lastRetryAt, nextRetryAt time.Time) error
	MarkFailed(ctx context.Context, id int64) error
	Remove(ctx context.Context, id, userID int64) error
}

type scheduleRepository struct {
	db *sql.DB
}

func NewScheduleRepository(db *sql.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

const scheduleColumns = `id, post_id, sns_platform, scheduled_at, status, retry_count, last_error, last_retry_at, next_retry_at, published_at`

func (r *scheduleRepository) Create(ctx context.Context, s *models.PostSchedule) (int64, error) {
	query := `
		INSERT INTO post_schedules (post_id, sns_platform, scheduled_at, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, s.PostID, s.Platform, s.ScheduledAt, models.ScheduleStatusPending).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *scheduleRepository) GetByID(ctx context.Context, id int64) (*models.PostSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM post_schedules WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	s, err := scanSchedule(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return s, nil
}

func (r *scheduleRepository) ListDue(ctx context.Context, now time.Time) ([]*models.PostSchedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM post_schedules
		WHERE status = $1 AND (scheduled_at <= $2 OR next_retry_at <= $2)
		ORDER BY scheduled_at
	`

	rows, err := r.db.QueryContext(ctx, query, models.ScheduleStatusPending, now)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	return scanSchedules(rows)
}

func (r *scheduleRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.PostSchedule, error) {
	query := `
		SELECT s.id, s.post_id, s.sns_platform, s.scheduled_at, s.status, s.retry_count, s.last_error, s.last_retry_at, s.next_retry_at, s.published_at
		FROM post_schedules s
		JOIN posts p ON p.id = s.post_id
		WHERE p.user_id = $1
		ORDER BY s.scheduled_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	return scanSchedules(rows)
}

// ClaimProcessing moves a schedule from pending to processing. The status
// check in the WHERE clause makes the claim atomic: a second consumer
// holding the same message sees zero affected rows and backs off.
func (r *scheduleRepository) ClaimProcessing(ctx context.Context, id int64) (bool, error) {
	query := `UPDATE post_schedules SET status = $1 WHERE id = $2 AND status = $3`

	result, err := r.db.ExecContext(ctx, query, models.ScheduleStatusProcessing, id, models.ScheduleStatusPending)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}

	return affected == 1, nil
}

func (r *scheduleRepository) MarkPublished(ctx context.Context, id int64, publishedAt time.Time) error {
	query := `UPDATE post_schedules SET status = $1, published_at = $2 WHERE id = $3`

	_, err := r.db.ExecContext(ctx, query, models.ScheduleStatusPublished, publishedAt, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *scheduleRepository) ScheduleRetry(ctx context.Context, id int64, lastError string, lastRetryAt, nextRetryAt time.Time) error {
	query := `
		UPDATE post_schedules
		SET status = $1,
			retry_count = retry_count + 1,
			last_error = $2,
			last_retry_at = $3,
			next_retry_at = $4
		WHERE id = $5
	`

	_, err := r.db.ExecContext(ctx, query, models.ScheduleStatusPending, lastError, lastRetryAt, nextRetryAt, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *scheduleRepository) MarkFailed(ctx context.Context, id int64) error {
	query := `UPDATE post_schedules SET status = $1 WHERE id = $2`

	_, err := r.db.ExecContext(ctx, query, models.ScheduleStatusFailed, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *scheduleRepository) Remove(ctx context.Context, id, userID int64) error {
	query := `
		DELETE FROM post_schedules s
		USING posts p
		WHERE s.id = $1 AND p.id = s.post_id AND p.user_id = $2
	`

	_, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row rowScanner) (*models.PostSchedule, error) {
	var s models.PostSchedule
	err := row.Scan(&s.ID, &s.PostID, &s.Platform, &s.ScheduledAt, &s.Status, &s.RetryCount,
		&s.LastError, &s.LastRetryAt, &s.NextRetryAt, &s.PublishedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func scanSchedules(rows *sql.Rows) ([]*models.PostSchedule, error) {
	var schedules []*models.PostSchedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}
