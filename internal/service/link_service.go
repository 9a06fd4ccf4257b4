package service

import (
	"context"
	"errors"
	"net/url"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/linktraq/linktraq/internal/models"
	"github.com/linktraq/linktraq/internal/repository"
	"github.com/linktraq/linktraq/internal/transfer"
)

const shortCodeLength = 8

type LinkService interface {
	Create(ctx context.Context, userID int64, creation *transfer.LinkCreation) (*models.AffiliateLink, error)
	List(ctx context.Context, userID int64) ([]*models.AffiliateLink, error)
	TrackClick(ctx context.Context, shortCode, referrer, userAgent, ipAddress string) (string, error)
}

type linkService struct {
	lr  repository.LinkRepository
	pdr repository.ProductRepository
}

func NewLinkService(lr repository.LinkRepository, pdr repository.ProductRepository) LinkService {
	return &linkService{lr: lr, pdr: pdr}
}

var ErrLinkNotFound = errors.New("link not found")

func (s *linkService) Create(ctx context.Context, userID int64, creation *transfer.LinkCreation) (*models.AffiliateLink, error) {
	if _, err := url.ParseRequestURI(creation.OriginalURL); err != nil {
		return nil, errors.New("original_url must be a valid URL")
	}

	// Links hang off products; a caller can only attach one to a
	// product they own.
	owned, err := s.pdr.CheckByUserID(ctx, creation.ProductID, userID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, errors.New("product not found")
	}

	shortCode, err := gonanoid.New(shortCodeLength)
	if err != nil {
		return nil, err
	}

	link := &models.AffiliateLink{
		ProductID:   creation.ProductID,
		ShortCode:   shortCode,
		OriginalURL: creation.OriginalURL,
	}

	id, err := s.lr.Create(ctx, link)
	if err != nil {
		return nil, err
	}

	link.ID = id
	return link, nil
}

func (s *linkService) List(ctx context.Context, userID int64) ([]*models.AffiliateLink, error) {
	return s.lr.ListByUserID(ctx, userID)
}

// TrackClick resolves a short code, records the click, and returns the
// destination URL. Click recording is best effort; a lost row must not
// break the redirect.
func (s *linkService) TrackClick(ctx context.Context, shortCode, referrer, userAgent, ipAddress string) (string, error) {
	link, err := s.lr.GetByShortCode(ctx, shortCode)
	if err != nil {
		return "", err
	}
	if link == nil {
		return "", ErrLinkNotFound
	}

	_ = s.lr.RecordClick(ctx, &models.LinkClick{
		AffiliateLinkID: link.ID,
		Referrer:        referrer,
		UserAgent:       userAgent,
		IPAddress:       ipAddress,
	})

	return link.OriginalURL, nil
}
