package service

import (
	"context"
	"errors"

	"github.com/linktraq/linktraq/internal/models"
	"github.com/linktraq/linktraq/internal/repository"
	"github.com/linktraq/linktraq/internal/transfer"
)

type ProductService interface {
	Create(ctx context.Context, userID int64, creation *transfer.ProductCreation) (int64, error)
	List(ctx context.Context, userID int64) ([]*models.Product, error)
}

type productService struct {
	pdr repository.ProductRepository
}

func NewProductService(pdr repository.ProductRepository) ProductService {
	return &productService{pdr: pdr}
}

func (s *productService) Create(ctx context.Context, userID int64, creation *transfer.ProductCreation) (int64, error) {
	if creation.Name == "" {
		return 0, errors.New("name is required")
	}

	return s.pdr.Create(ctx, &models.Product{
		UserID:      userID,
		Name:        creation.Name,
		Description: creation.Description,
		Price:       creation.Price,
		ImageURL:    creation.ImageURL,
	})
}

func (s *productService) List(ctx context.Context, userID int64) ([]*models.Product, error) {
	return s.pdr.ListByUserID(ctx, userID)
}
