package service

import (
	"context"
	"errors"
	"log/slog"

	config "github.com/linktraq/linktraq/configs"
	"github.com/linktraq/linktraq/internal/models"
	"github.com/linktraq/linktraq/internal/repository"
	"github.com/linktraq/linktraq/pkg/utils"
)

// ErrCredentialUnusable means a credential exists but cannot be
// decrypted. Retrying cannot help any more than a missing credential.
var ErrCredentialUnusable = errors.New("stored credential cannot be decrypted")

type IntegrationService interface {
	Resolve(ctx context.Context, userID int64, platform string) (*models.SNSIntegration, error)
}

type integrationService struct {
	cfg config.Config
	ir  repository.IntegrationRepository
}

func NewIntegrationService(cfg config.Config, ir repository.IntegrationRepository) IntegrationService {
	return &integrationService{cfg: cfg, ir: ir}
}

// Resolve looks up the (user, platform) credential and returns it with
// the access token decrypted. A missing integration resolves to
// (nil, nil).
func (s *integrationService) Resolve(ctx context.Context, userID int64, platform string) (*models.SNSIntegration, error) {
	integration, err := s.ir.GetByUserAndPlatform(ctx, userID, platform)
	if err != nil {
		return nil, err
	}
	if integration == nil {
		return nil, nil
	}

	accessToken, err := utils.Decrypt(integration.AccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		slog.Info(err.Error())
		return nil, ErrCredentialUnusable
	}

	integration.AccessToken = accessToken
	return integration, nil
}
