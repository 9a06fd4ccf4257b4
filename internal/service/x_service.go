package service

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	config "github.com/linktraq/linktraq/configs"
	"github.com/linktraq/linktraq/internal/transfer"
)

type XService interface {
	PostTweet(ctx context.Context, accessToken, text string) (string, error)
}

type xService struct {
	baseURL string
	client  *http.Client
}

func NewXService(cfg config.Config) XService {
	return &xService{
		baseURL: cfg.XAPIBaseURL,
		client:  &http.Client{Timeout: cfg.PublishTimeout},
	}
}

// PostTweet publishes text through the X v2 tweets endpoint and
// returns the platform-assigned post id.
func (s *xService) PostTweet(ctx context.Context, accessToken, text string) (string, error) {
	body, err := json.Marshal(transfer.TweetRequest{Text: text})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/2/tweets", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &transfer.XAPIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil {
			apiErr.Detail = resp.Status
		}
		slog.Info(apiErr.Error())
		return "", apiErr
	}

	var tweet transfer.TweetResponse
	if err := json.NewDecoder(resp.Body).Decode(&tweet); err != nil {
		slog.Info(err.Error())
		return "", err
	}

	return tweet.Data.ID, nil
}
