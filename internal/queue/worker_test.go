package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/linktraq/linktraq/configs"
	"github.com/linktraq/linktraq/internal/models"
	"github.com/linktraq/linktraq/internal/transfer"
)

var testNow = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

type fakeScheduleRepo struct {
	schedule *models.PostSchedule
	claimOK  bool

	claimed      bool
	publishedAt  *time.Time
	markedFailed bool
	retried      bool
	retryErr     string
	lastRetryAt  time.Time
	nextRetryAt  time.Time
}

func (r *fakeScheduleRepo) Create(ctx context.Context, s *models.PostSchedule) (int64, error) {
	return 0, errors.New("not implemented")
}

func (r *fakeScheduleRepo) GetByID(ctx context.Context, id int64) (*models.PostSchedule, error) {
	if r.schedule == nil || r.schedule.ID != id {
		return nil, nil
	}
	copied := *r.schedule
	return &copied, nil
}

func (r *fakeScheduleRepo) ListDue(ctx context.Context, now time.Time) ([]*models.PostSchedule, error) {
	return nil, nil
}

func (r *fakeScheduleRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.PostSchedule, error) {
	return nil, nil
}

func (r *fakeScheduleRepo) ClaimProcessing(ctx context.Context, id int64) (bool, error) {
	r.claimed = r.claimOK
	return r.claimOK, nil
}

func (r *fakeScheduleRepo) MarkPublished(ctx context.Context, id int64, publishedAt time.Time) error {
	r.publishedAt = &publishedAt
	return nil
}

func (r *fakeScheduleRepo) ScheduleRetry(ctx context.Context, id int64, lastError string, lastRetryAt, nextRetryAt time.Time) error {
	r.retried = true
	r.retryErr = lastError
	r.lastRetryAt = lastRetryAt
	r.nextRetryAt = nextRetryAt
	return nil
}

func (r *fakeScheduleRepo) MarkFailed(ctx context.Context, id int64) error {
	r.markedFailed = true
	return nil
}

func (r *fakeScheduleRepo) Remove(ctx context.Context, id, userID int64) error {
	return nil
}

type fakePostRepo struct {
	post *models.Post
}

func (r *fakePostRepo) Create(ctx context.Context, post *models.Post) (int64, error) {
	return 0, errors.New("not implemented")
}

func (r *fakePostRepo) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	if r.post == nil || r.post.ID != id {
		return nil, nil
	}
	return r.post, nil
}

func (r *fakePostRepo) GetByUserID(ctx context.Context, userID int64) ([]*models.Post, error) {
	return nil, nil
}

func (r *fakePostRepo) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	return false, nil
}

func (r *fakePostRepo) Remove(ctx context.Context, id int64) error {
	return nil
}

type fakeFailureRepo struct {
	failures []*models.PostFailure
}

func (r *fakeFailureRepo) Create(ctx context.Context, f *models.PostFailure) (int64, error) {
	r.failures = append(r.failures, f)
	return int64(len(r.failures)), nil
}

func (r *fakeFailureRepo) GetByUserID(ctx context.Context, userID int64) ([]*models.PostFailure, error) {
	return r.failures, nil
}

func (r *fakeFailureRepo) GetByScheduleID(ctx context.Context, scheduleID int64) ([]*models.PostFailure, error) {
	return r.failures, nil
}

type fakeLinkRepo struct {
	link *models.AffiliateLink
}

func (r *fakeLinkRepo) Create(ctx context.Context, link *models.AffiliateLink) (int64, error) {
	return 0, errors.New("not implemented")
}

func (r *fakeLinkRepo) GetByShortCode(ctx context.Context, shortCode string) (*models.AffiliateLink, error) {
	return nil, nil
}

func (r *fakeLinkRepo) GetFirstByProductID(ctx context.Context, productID int64) (*models.AffiliateLink, error) {
	return r.link, nil
}

func (r *fakeLinkRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.AffiliateLink, error) {
	return nil, nil
}

func (r *fakeLinkRepo) RecordClick(ctx context.Context, click *models.LinkClick) error {
	return nil
}

type fakeNotificationRepo struct {
	notifications []*models.Notification
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *models.Notification) (int64, error) {
	r.notifications = append(r.notifications, n)
	return int64(len(r.notifications)), nil
}

func (r *fakeNotificationRepo) GetByUserID(ctx context.Context, userID int64) ([]*models.Notification, error) {
	return r.notifications, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id, userID int64) error {
	return nil
}

type fakeIntegrationService struct {
	integration *models.SNSIntegration
	err         error
}

func (s *fakeIntegrationService) Resolve(ctx context.Context, userID int64, platform string) (*models.SNSIntegration, error) {
	return s.integration, s.err
}

type fakeXService struct {
	postID string
	err    error

	calls    int
	lastText string
}

func (s *fakeXService) PostTweet(ctx context.Context, accessToken, text string) (string, error) {
	s.calls++
	s.lastText = text
	return s.postID, s.err
}

type fakeEnqueuer struct {
	enqueued   []PublishPostPayload
	deadletter []PublishPostPayload
}

func (e *fakeEnqueuer) EnqueuePost(ctx context.Context, payload PublishPostPayload) error {
	e.enqueued = append(e.enqueued, payload)
	return nil
}

func (e *fakeEnqueuer) EnqueueDeadLetter(ctx context.Context, payload PublishPostPayload) error {
	e.deadletter = append(e.deadletter, payload)
	return nil
}

type testEnv struct {
	q   *Queue
	sr  *fakeScheduleRepo
	fr  *fakeFailureRepo
	nr  *fakeNotificationRepo
	xs  *fakeXService
	enq *fakeEnqueuer
}

func newTestEnv(schedule *models.PostSchedule, post *models.Post, integration *models.SNSIntegration) *testEnv {
	env := &testEnv{
		sr:  &fakeScheduleRepo{schedule: schedule, claimOK: true},
		fr:  &fakeFailureRepo{},
		nr:  &fakeNotificationRepo{},
		xs:  &fakeXService{postID: "1835000000000000001"},
		enq: &fakeEnqueuer{},
	}

	env.q = &Queue{
		cfg:   config.Config{ShortLinkDomain: "https://go.example"},
		sr:    env.sr,
		pr:    &fakePostRepo{post: post},
		is:    &fakeIntegrationService{integration: integration},
		fr:    env.fr,
		lr:    &fakeLinkRepo{},
		nr:    env.nr,
		xs:    env.xs,
		enq:   env.enq,
		retry: DefaultRetryPolicy(),
		now:   func() time.Time { return testNow },
	}

	return env
}

func pendingSchedule(retryCount int) *models.PostSchedule {
	return &models.PostSchedule{
		ID:          7,
		PostID:      3,
		Platform:    models.PlatformX,
		ScheduledAt: testNow.Add(-time.Minute),
		Status:      models.ScheduleStatusPending,
		RetryCount:  retryCount,
	}
}

func testPost() *models.Post {
	return &models.Post{
		ID:      3,
		UserID:  11,
		Content: "Great product!",
		Status:  models.PostStatusScheduled,
	}
}

func testIntegration() *models.SNSIntegration {
	return &models.SNSIntegration{
		ID:          1,
		UserID:      11,
		Platform:    models.PlatformX,
		AccessToken: "token",
	}
}

func payloadFor(s *models.PostSchedule) PublishPostPayload {
	return PublishPostPayload{
		ScheduleID: s.ID,
		PostID:     s.PostID,
		Platform:   s.Platform,
		RetryCount: s.RetryCount,
	}
}

func TestPublishScheduled_Success(t *testing.T) {
	schedule := pendingSchedule(0)
	env := newTestEnv(schedule, testPost(), testIntegration())

	err := env.q.PublishScheduled(context.Background(), payloadFor(schedule))
	require.NoError(t, err)

	assert.True(t, env.sr.claimed)
	require.NotNil(t, env.sr.publishedAt)
	assert.Equal(t, testNow, *env.sr.publishedAt)
	assert.Equal(t, 1, env.xs.calls)
	assert.Empty(t, env.fr.failures)
	assert.Empty(t, env.enq.deadletter)
	assert.False(t, env.sr.markedFailed)
}

func TestPublishScheduled_ContentIncludesHashtagsAndShortLink(t *testing.T) {
	schedule := pendingSchedule(0)
	post := testPost()
	post.Hashtags = []string{"sale", "tech"}
	productID := int64(5)
	post.ProductID = &productID

	env := newTestEnv(schedule, post, testIntegration())
	env.q.lr = &fakeLinkRepo{link: &models.AffiliateLink{ID: 9, ProductID: 5, ShortCode: "abc123"}}

	err := env.q.PublishScheduled(context.Background(), payloadFor(schedule))
	require.NoError(t, err)

	assert.Equal(t, "Great product!\n\n#sale #tech\n\nhttps://go.example/abc123", env.xs.lastText)
}

func TestPublishScheduled_MissingSchedule(t *testing.T) {
	schedule := pendingSchedule(0)
	env := newTestEnv(nil, testPost(), testIntegration())

	err := env.q.PublishScheduled(context.Background(), payloadFor(schedule))
	require.NoError(t, err)

	assert.Equal(t, 0, env.xs.calls)
	assert.Empty(t, env.fr.failures)
}

func TestPublishScheduled_AlreadyPublishedIsNoop(t *testing.T) {
	schedule := pendingSchedule(0)
	schedule.Status = models.ScheduleStatusPublished
	publishedAt := testNow.Add(-time.Hour)
	schedule.PublishedAt = &publishedAt

	env := newTestEnv(schedule, testPost(), testIntegration())

	err := env.q.PublishScheduled(context.Background(), payloadFor(schedule))
	require.NoError(t, err)

	assert.False(t, env.sr.claimed)
	assert.Equal(t, 0, env.xs.calls)
	assert.Empty(t, env.fr.failures)
	assert.Nil(t, env.sr.publishedAt)
}

func TestPublishScheduled_LostClaimIsNoop(t *testing.T) {
	schedule := pendingSchedule(0)
	env := newTestEnv(schedule, testPost(), testIntegration())
	env.sr.claimOK = false

	err := env.q.PublishScheduled(context.Background(), payloadFor(schedule))
	require.NoError(t, err)

	assert.Equal(t, 0, env.xs.calls)
	assert.Empty(t, env.fr.failures)
}

func TestPublishScheduled_TimeoutSchedulesFirstRetry(t *testing.T) {
	schedule := pendingSchedule(0)
	env := newTestEnv(schedule, testPost(), testIntegration())
	env.xs.err = fakeTimeoutError{}

	err := env.q.PublishScheduled(context.Background(), payloadFor(schedule))
	require.NoError(t, err)

	require.Len(t, env.fr.failures, 1)
	failure := env.fr.failures[0]
	assert.Equal(t, models.ErrorTypeNetwork, failure.ErrorType)
	assert.False(t, failure.IsFinalFailure)
	assert.Equal(t, 0, failure.RetryCount)

	assert.True(t, env.sr.retried)
	assert.Equal(t, testNow, env.sr.lastRetryAt)
	assert.Equal(t, testNow.Add(5*time.Minute), env.sr.nextRetryAt)
	assert.False(t, env.sr.markedFailed)
	assert.Empty(t, env.enq.deadletter)
}

func TestPublishScheduled_ThirdFailureWaitsAnHour(t *testing.T) {
	schedule := pendingSchedule(2)
	env := newTestEnv(schedule, testPost(), testIntegration())
	env.xs.err = &transfer.XAPIError{StatusCode: 500, Detail: "something broke"}

	err := env.q.PublishScheduled(context.Background(), payloadFor(schedule))
	require.NoError(t, err)

	require.Len(t, env.fr.failures, 1)
	assert.Equal(t, models.ErrorTypeAPI, env.fr.failures[0].ErrorType)
	assert.False(t, env.fr.failures[0].IsFinalFailure)
	assert.Equal(t, testNow.Add(60*time.Minute), env.sr.nextRetryAt)
}

func TestPublishScheduled_ExhaustedRetriesFinalizes(t *testing.T) {
	schedule := pendingSchedule(3)
	env := newTestEnv(schedule, testPost(), testIntegration())
	env.xs.err = &transfer.XAPIError{StatusCode: 500, Detail: "something broke"}

	err := env.q.PublishScheduled(context.Background(), payloadFor(schedule))
	require.NoError(t, err)

	require.Len(t, env.fr.failures, 1)
	failure := env.fr.failures[0]
	assert.Equal(t, models.ErrorTypeAPI, failure.ErrorType)
	assert.True(t, failure.IsFinalFailure)
	assert.Equal(t, 3, failure.RetryCount)
	assert.Equal(t, models.PlatformX, failure.Platform)

	assert.True(t, env.sr.markedFailed)
	assert.False(t, env.sr.retried)
	require.Len(t, env.enq.deadletter, 1)
	assert.Equal(t, schedule.ID, env.enq.deadletter[0].ScheduleID)

	require.Len(t, env.nr.notifications, 1)
	assert.Equal(t, models.NotificationTypePostFailure, env.nr.notifications[0].Type)
	assert.Equal(t, int64(11), env.nr.notifications[0].UserID)
}

func TestPublishScheduled_MissingIntegrationIsTerminal(t *testing.T) {
	schedule := pendingSchedule(0)
	env := newTestEnv(schedule, testPost(), nil)

	err := env.q.PublishScheduled(context.Background(), payloadFor(schedule))
	require.NoError(t, err)

	assert.Equal(t, 0, env.xs.calls)
	require.Len(t, env.fr.failures, 1)
	assert.Equal(t, models.ErrorTypeConfiguration, env.fr.failures[0].ErrorType)
	assert.True(t, env.fr.failures[0].IsFinalFailure)
	assert.True(t, env.sr.markedFailed)
	require.Len(t, env.enq.deadletter, 1)
}

func TestPublishScheduled_InstagramNotImplemented(t *testing.T) {
	schedule := pendingSchedule(0)
	schedule.Platform = models.PlatformInstagram
	integration := testIntegration()
	integration.Platform = models.PlatformInstagram

	env := newTestEnv(schedule, testPost(), integration)

	err := env.q.PublishScheduled(context.Background(), payloadFor(schedule))
	require.NoError(t, err)

	assert.Equal(t, 0, env.xs.calls)
	require.Len(t, env.fr.failures, 1)
	assert.Equal(t, models.ErrorTypeAPI, env.fr.failures[0].ErrorType)
	assert.True(t, env.sr.retried)
}
