package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/oauth2"

	config "github.com/linktraq/linktraq/configs"
	"github.com/linktraq/linktraq/internal/models"
	"github.com/linktraq/linktraq/internal/repository"
	"github.com/linktraq/linktraq/pkg/utils"
)

type TokenRefreshJob struct {
	cfg config.Config
	ir  repository.IntegrationRepository
}

func NewTokenRefreshJob(cfg config.Config, ir repository.IntegrationRepository) *TokenRefreshJob {
	return &TokenRefreshJob{cfg: cfg, ir: ir}
}

func (c *TokenRefreshJob) RefreshTokens() {
	ctx := context.Background()

	currentTime := time.Now()
	timeIn30Minutes := currentTime.Add(30 * time.Minute)

	integrations, err := c.ir.ListExpiring(ctx, currentTime, timeIn30Minutes)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup

	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, in := range integrations {

		wg.Add(1)
		semaphore <- struct{}{}

		go func(in *models.SNSIntegration) {
			defer wg.Done()
			defer func() { <-semaphore }()

			switch in.Platform {
			case models.PlatformX:
				if err := c.refreshXToken(ctx, in); err != nil {
					slog.Info(err.Error())
				}
			}
		}(in)
	}

	wg.Wait()
}

func (c *TokenRefreshJob) refreshXToken(ctx context.Context, in *models.SNSIntegration) error {
	refreshToken, err := utils.Decrypt(*in.RefreshToken, []byte(c.cfg.SecretKey))
	if err != nil {
		return err
	}

	conf := &oauth2.Config{
		ClientID:     c.cfg.XClientID,
		ClientSecret: c.cfg.XClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL: c.cfg.XAPIBaseURL + "/2/oauth2/token",
		},
	}

	token, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return err
	}

	encryptedAccessToken, err := utils.Encrypt([]byte(token.AccessToken), []byte(c.cfg.SecretKey))
	if err != nil {
		return err
	}

	var encryptedRefreshToken *string
	if token.RefreshToken != "" {
		enc, err := utils.Encrypt([]byte(token.RefreshToken), []byte(c.cfg.SecretKey))
		if err != nil {
			return err
		}
		encryptedRefreshToken = &enc
	}

	var expiresAt *time.Time
	if !token.Expiry.IsZero() {
		expiresAt = &token.Expiry
	}

	return c.ir.UpdateTokens(ctx, in.ID, encryptedAccessToken, encryptedRefreshToken, expiresAt)
}
