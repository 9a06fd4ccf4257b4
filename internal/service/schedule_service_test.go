package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linktraq/linktraq/internal/models"
	"github.com/linktraq/linktraq/internal/transfer"
)

type fakeScheduleRepo struct {
	created   *models.PostSchedule
	schedules map[int64]*models.PostSchedule
}

func (r *fakeScheduleRepo) Create(ctx context.Context, s *models.PostSchedule) (int64, error) {
	r.created = s
	return 42, nil
}

func (r *fakeScheduleRepo) GetByID(ctx context.Context, id int64) (*models.PostSchedule, error) {
	return r.schedules[id], nil
}

func (r *fakeScheduleRepo) ListDue(ctx context.Context, now time.Time) ([]*models.PostSchedule, error) {
	return nil, nil
}

func (r *fakeScheduleRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.PostSchedule, error) {
	return nil, nil
}

func (r *fakeScheduleRepo) ClaimProcessing(ctx context.Context, id int64) (bool, error) {
	return false, nil
}

func (r *fakeScheduleRepo) MarkPublished(ctx context.Context, id int64, publishedAt time.Time) error {
	return nil
}

func (r *fakeScheduleRepo) ScheduleRetry(ctx context.Context, id int64, lastError string, lastRetryAt, nextRetryAt time.Time) error {
	return nil
}

func (r *fakeScheduleRepo) MarkFailed(ctx context.Context, id int64) error {
	return nil
}

func (r *fakeScheduleRepo) Remove(ctx context.Context, id, userID int64) error {
	return nil
}

type fakeFailureRepo struct {
	byScheduleID map[int64][]*models.PostFailure
}

func (r *fakeFailureRepo) Create(ctx context.Context, f *models.PostFailure) (int64, error) {
	return 0, nil
}

func (r *fakeFailureRepo) GetByUserID(ctx context.Context, userID int64) ([]*models.PostFailure, error) {
	return nil, nil
}

func (r *fakeFailureRepo) GetByScheduleID(ctx context.Context, scheduleID int64) ([]*models.PostFailure, error) {
	return r.byScheduleID[scheduleID], nil
}

type fakePostRepo struct {
	owned bool
}

func (r *fakePostRepo) Create(ctx context.Context, post *models.Post) (int64, error) {
	return 0, nil
}

func (r *fakePostRepo) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	return nil, nil
}

func (r *fakePostRepo) GetByUserID(ctx context.Context, userID int64) ([]*models.Post, error) {
	return nil, nil
}

func (r *fakePostRepo) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	return r.owned, nil
}

func (r *fakePostRepo) Remove(ctx context.Context, id int64) error {
	return nil
}

func TestCreateSchedule(t *testing.T) {
	sr := &fakeScheduleRepo{}
	s := NewScheduleService(sr, &fakePostRepo{owned: true}, nil)

	id, err := s.Create(context.Background(), 11, &transfer.ScheduleCreation{
		PostID:      3,
		Platform:    models.PlatformX,
		ScheduledAt: "2026-09-01T09:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	require.NotNil(t, sr.created)
	assert.Equal(t, int64(3), sr.created.PostID)
	assert.Equal(t, models.PlatformX, sr.created.Platform)
	assert.Equal(t, time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC), sr.created.ScheduledAt)
}

func TestGetSchedule(t *testing.T) {
	sr := &fakeScheduleRepo{schedules: map[int64]*models.PostSchedule{
		7: {ID: 7, PostID: 3, Platform: models.PlatformX},
	}}
	s := NewScheduleService(sr, &fakePostRepo{owned: true}, nil)

	schedule, err := s.Get(context.Background(), 11, 7)
	require.NoError(t, err)
	require.NotNil(t, schedule)
	assert.Equal(t, int64(7), schedule.ID)
}

func TestGetSchedule_HidesForeignSchedule(t *testing.T) {
	sr := &fakeScheduleRepo{schedules: map[int64]*models.PostSchedule{
		7: {ID: 7, PostID: 3, Platform: models.PlatformX},
	}}
	s := NewScheduleService(sr, &fakePostRepo{owned: false}, nil)

	schedule, err := s.Get(context.Background(), 11, 7)
	require.NoError(t, err)
	assert.Nil(t, schedule)
}

func TestListScheduleFailures(t *testing.T) {
	sr := &fakeScheduleRepo{schedules: map[int64]*models.PostSchedule{
		7: {ID: 7, PostID: 3, Platform: models.PlatformX},
	}}
	fr := &fakeFailureRepo{byScheduleID: map[int64][]*models.PostFailure{
		7: {{PostScheduleID: 7, ErrorType: models.ErrorTypeNetwork}},
	}}
	s := NewScheduleService(sr, &fakePostRepo{owned: true}, fr)

	failures, err := s.ListScheduleFailures(context.Background(), 11, 7)
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, int64(7), failures[0].PostScheduleID)
}

func TestListScheduleFailures_HidesForeignSchedule(t *testing.T) {
	sr := &fakeScheduleRepo{schedules: map[int64]*models.PostSchedule{
		7: {ID: 7, PostID: 3, Platform: models.PlatformX},
	}}
	s := NewScheduleService(sr, &fakePostRepo{owned: false}, &fakeFailureRepo{})

	_, err := s.ListScheduleFailures(context.Background(), 11, 7)
	assert.ErrorIs(t, err, ErrScheduleNotFound)
}

func TestCreateSchedule_RejectsUnknownPlatform(t *testing.T) {
	s := NewScheduleService(&fakeScheduleRepo{}, &fakePostRepo{owned: true}, nil)

	_, err := s.Create(context.Background(), 11, &transfer.ScheduleCreation{
		PostID:      3,
		Platform:    "myspace",
		ScheduledAt: "2026-09-01T09:00:00Z",
	})
	assert.Error(t, err)
}

func TestCreateSchedule_RejectsBadTimestamp(t *testing.T) {
	s := NewScheduleService(&fakeScheduleRepo{}, &fakePostRepo{owned: true}, nil)

	_, err := s.Create(context.Background(), 11, &transfer.ScheduleCreation{
		PostID:      3,
		Platform:    models.PlatformX,
		ScheduledAt: "tomorrow",
	})
	assert.Error(t, err)
}

func TestCreateSchedule_RejectsForeignPost(t *testing.T) {
	s := NewScheduleService(&fakeScheduleRepo{}, &fakePostRepo{owned: false}, nil)

	_, err := s.Create(context.Background(), 11, &transfer.ScheduleCreation{
		PostID:      3,
		Platform:    models.PlatformX,
		ScheduledAt: "2026-09-01T09:00:00Z",
	})
	assert.Error(t, err)
}
