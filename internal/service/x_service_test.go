package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/linktraq/linktraq/configs"
	"github.com/linktraq/linktraq/internal/transfer"
)

func newTestXService(baseURL string) XService {
	return NewXService(config.Config{
		XAPIBaseURL:    baseURL,
		PublishTimeout: 5 * time.Second,
	})
}

func TestPostTweet_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/2/tweets", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))

		var req transfer.TweetRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello world", req.Text)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"1835000000000000001","text":"hello world"}}`))
	}))
	defer server.Close()

	s := newTestXService(server.URL)

	id, err := s.PostTweet(context.Background(), "secret-token", "hello world")
	require.NoError(t, err)
	assert.Equal(t, "1835000000000000001", id)
}

func TestPostTweet_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"title":"Unauthorized","detail":"Invalid token"}`))
	}))
	defer server.Close()

	s := newTestXService(server.URL)

	_, err := s.PostTweet(context.Background(), "expired", "hello")
	require.Error(t, err)

	var apiErr *transfer.XAPIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid token", apiErr.Detail)
}

func TestPostTweet_UndecodableErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unhappy"))
	}))
	defer server.Close()

	s := newTestXService(server.URL)

	_, err := s.PostTweet(context.Background(), "token", "hello")
	require.Error(t, err)

	var apiErr *transfer.XAPIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.NotEmpty(t, apiErr.Detail)
}
