package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/linktraq/linktraq/internal/models"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) (int64, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.Product, error)
	CheckByUserID(ctx context.Context, productID, userID int64) (bool, error)
}

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, user_id, name, description, price, image_url, created_at`

func (r *productRepository) Create(ctx context.Context, product *models.Product) (int64, error) {
	query := `
		INSERT INTO products (user_id, name, description, price, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, product.UserID, product.Name,
		product.Description, product.Price, product.ImageURL).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *productRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		var p models.Product
		err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Description,
			&p.Price, &p.ImageURL, &p.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}

func (r *productRepository) CheckByUserID(ctx context.Context, productID, userID int64) (bool, error) {
	query := `SELECT 1 FROM products WHERE id = $1 AND user_id = $2`

	var result int
	err := r.db.QueryRowContext(ctx, query, productID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}
