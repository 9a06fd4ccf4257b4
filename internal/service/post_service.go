package service

import (
	"context"
	"errors"

	"github.com/linktraq/linktraq/internal/models"
	"github.com/linktraq/linktraq/internal/repository"
	"github.com/linktraq/linktraq/internal/transfer"
)

type PostService interface {
	Create(ctx context.Context, userID int64, creation *transfer.PostCreation) (int64, error)
	List(ctx context.Context, userID int64) ([]*models.Post, error)
	Remove(ctx context.Context, userID, id int64) error
}

type postService struct {
	pr repository.PostRepository
}

func NewPostService(pr repository.PostRepository) PostService {
	return &postService{pr: pr}
}

func (s *postService) Create(ctx context.Context, userID int64, creation *transfer.PostCreation) (int64, error) {
	if creation.Content == "" {
		return 0, errors.New("content is required")
	}

	return s.pr.Create(ctx, &models.Post{
		UserID:    userID,
		ProductID: creation.ProductID,
		Content:   creation.Content,
		Hashtags:  creation.Hashtags,
		Status:    models.PostStatusDraft,
	})
}

func (s *postService) List(ctx context.Context, userID int64) ([]*models.Post, error) {
	return s.pr.GetByUserID(ctx, userID)
}

func (s *postService) Remove(ctx context.Context, userID, id int64) error {
	owned, err := s.pr.CheckByUserID(ctx, id, userID)
	if err != nil {
		return err
	}
	if !owned {
		return errors.New("post not found")
	}

	return s.pr.Remove(ctx, id)
}
