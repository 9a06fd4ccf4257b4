package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/linktraq/linktraq/internal/models"
)

type IntegrationRepository interface {
	GetByUserAndPlatform(ctx context.Context, userID int64, platform string) (*models.SNSIntegration, error)
	ListExpiring(ctx context.Context, from, to time.Time) ([]*models.SNSIntegration, error)
	UpdateTokens(ctx context.Context, id int64, accessToken string, refreshToken *string, expiresAt *time.Time) error
}

type integrationRepository struct {
	db *sql.DB
}

func NewIntegrationRepository(db *sql.DB) IntegrationRepository {
	return &integrationRepository{db: db}
}

const integrationColumns = `id, user_id, platform, access_token, refresh_token, expires_at, created_at, updated_at`

func (r *integrationRepository) GetByUserAndPlatform(ctx context.Context, userID int64, platform string) (*models.SNSIntegration, error) {
	query := `SELECT ` + integrationColumns + ` FROM sns_integrations WHERE user_id = $1 AND platform = $2`
	row := r.db.QueryRowContext(ctx, query, userID, platform)

	var in models.SNSIntegration
	err := row.Scan(&in.ID, &in.UserID, &in.Platform, &in.AccessToken, &in.RefreshToken,
		&in.ExpiresAt, &in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &in, nil
}

func (r *integrationRepository) ListExpiring(ctx context.Context, from, to time.Time) ([]*models.SNSIntegration, error) {
	query := `
		SELECT ` + integrationColumns + `
		FROM sns_integrations
		WHERE refresh_token IS NOT NULL AND expires_at BETWEEN $1 AND $2
	`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var integrations []*models.SNSIntegration
	for rows.Next() {
		var in models.SNSIntegration
		err := rows.Scan(&in.ID, &in.UserID, &in.Platform, &in.AccessToken, &in.RefreshToken,
			&in.ExpiresAt, &in.CreatedAt, &in.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		integrations = append(integrations, &in)
	}
	return integrations, rows.Err()
}

func (r *integrationRepository) UpdateTokens(ctx context.Context, id int64, accessToken string, refreshToken *string, expiresAt *time.Time) error {
	query := `
		UPDATE sns_integrations
		SET access_token = $1, refresh_token = COALESCE($2, refresh_token), expires_at = $3, updated_at = $4
		WHERE id = $5
	`

	_, err := r.db.ExecContext(ctx, query, accessToken, refreshToken, expiresAt, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
