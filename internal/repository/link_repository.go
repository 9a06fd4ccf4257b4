package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/linktraq/linktraq/internal/models"
)

type LinkRepository interface {
	Create(ctx context.Context, link *models.AffiliateLink) (int64, error)
	GetByShortCode(ctx context.Context, shortCode string) (*models.AffiliateLink, error)
	GetFirstByProductID(ctx context.Context, productID int64) (*models.AffiliateLink, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.AffiliateLink, error)
	RecordClick(ctx context.Context, click *models.LinkClick) error
}

type linkRepository struct {
	db *sql.DB
}

func NewLinkRepository(db *sql.DB) LinkRepository {
	return &linkRepository{db: db}
}

const linkColumns = `id, product_id, short_code, original_url, created_at`

func (r *linkRepository) Create(ctx context.Context, link *models.AffiliateLink) (int64, error) {
	query := `
		INSERT INTO affiliate_links (product_id, short_code, original_url)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, link.ProductID, link.ShortCode, link.OriginalURL).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *linkRepository) GetByShortCode(ctx context.Context, shortCode string) (*models.AffiliateLink, error) {
	query := `SELECT ` + linkColumns + ` FROM affiliate_links WHERE short_code = $1`
	return r.get(ctx, query, shortCode)
}

func (r *linkRepository) GetFirstByProductID(ctx context.Context, productID int64) (*models.AffiliateLink, error) {
	query := `SELECT ` + linkColumns + ` FROM affiliate_links WHERE product_id = $1 ORDER BY created_at LIMIT 1`
	return r.get(ctx, query, productID)
}

func (r *linkRepository) get(ctx context.Context, query string, arg any) (*models.AffiliateLink, error) {
	row := r.db.QueryRowContext(ctx, query, arg)

	var link models.AffiliateLink
	err := row.Scan(&link.ID, &link.ProductID, &link.ShortCode, &link.OriginalURL, &link.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &link, nil
}

func (r *linkRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.AffiliateLink, error) {
	query := `
		SELECT l.id, l.product_id, l.short_code, l.original_url, l.created_at
		FROM affiliate_links l
		JOIN products p ON p.id = l.product_id
		WHERE p.user_id = $1
		ORDER BY l.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var links []*models.AffiliateLink
	for rows.Next() {
		var link models.AffiliateLink
		err := rows.Scan(&link.ID, &link.ProductID, &link.ShortCode, &link.OriginalURL, &link.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		links = append(links, &link)
	}
	return links, rows.Err()
}

func (r *linkRepository) RecordClick(ctx context.Context, click *models.LinkClick) error {
	query := `
		INSERT INTO link_clicks (affiliate_link_id, post_id, referrer, user_agent, ip_address)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query, click.AffiliateLinkID, click.PostID,
		click.Referrer, click.UserAgent, click.IPAddress)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
