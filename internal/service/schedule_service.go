package service

import (
	"context"
	"errors"
	"time"

	"github.com/linktraq/linktraq/internal/models"
	"github.com/linktraq/linktraq/internal/repository"
	"github.com/linktraq/linktraq/internal/transfer"
)

type ScheduleService interface {
	Create(ctx context.Context, userID int64, creation *transfer.ScheduleCreation) (int64, error)
	Get(ctx context.Context, userID, id int64) (*models.PostSchedule, error)
	List(ctx context.Context, userID int64) ([]*models.PostSchedule, error)
	Remove(ctx context.Context, userID, id int64) error
	ListFailures(ctx context.Context, userID int64) ([]*models.PostFailure, error)
	ListScheduleFailures(ctx context.Context, userID, id int64) ([]*models.PostFailure, error)
}

var ErrScheduleNotFound = errors.New("schedule not found")

type scheduleService struct {
	sr repository.ScheduleRepository
	pr repository.PostRepository
	fr repository.FailureRepository
}

func NewScheduleService(sr repository.ScheduleRepository, pr repository.PostRepository, fr repository.FailureRepository) ScheduleService {
	return &scheduleService{sr: sr, pr: pr, fr: fr}
}

func (s *scheduleService) Create(ctx context.Context, userID int64, creation *transfer.ScheduleCreation) (int64, error) {
	if !models.IsValidPlatform(creation.Platform) {
		return 0, errors.New("unsupported platform")
	}

	scheduledAt, err := time.Parse(time.RFC3339, creation.ScheduledAt)
	if err != nil {
		return 0, errors.New("scheduled_at must be RFC3339")
	}

	owned, err := s.pr.CheckByUserID(ctx, creation.PostID, userID)
	if err != nil {
		return 0, err
	}
	if !owned {
		return 0, errors.New("post not found")
	}

	// The scanner owns enqueueing; creation only persists the pending
	// schedule for a later scan cycle to pick up.
	return s.sr.Create(ctx, &models.PostSchedule{
		PostID:      creation.PostID,
		Platform:    creation.Platform,
		ScheduledAt: scheduledAt,
	})
}

// Get returns (nil, nil) for schedules that do not exist or belong to
// another user; the handler treats both as not found.
func (s *scheduleService) Get(ctx context.Context, userID, id int64) (*models.PostSchedule, error) {
	schedule, err := s.sr.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, nil
	}

	owned, err := s.pr.CheckByUserID(ctx, schedule.PostID, userID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, nil
	}

	return schedule, nil
}

func (s *scheduleService) List(ctx context.Context, userID int64) ([]*models.PostSchedule, error) {
	return s.sr.ListByUserID(ctx, userID)
}

func (s *scheduleService) Remove(ctx context.Context, userID, id int64) error {
	return s.sr.Remove(ctx, id, userID)
}

func (s *scheduleService) ListFailures(ctx context.Context, userID int64) ([]*models.PostFailure, error) {
	return s.fr.GetByUserID(ctx, userID)
}

// ListScheduleFailures returns the delivery attempt history of a
// single schedule, oldest first.
func (s *scheduleService) ListScheduleFailures(ctx context.Context, userID, id int64) ([]*models.PostFailure, error) {
	schedule, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, ErrScheduleNotFound
	}

	return s.fr.GetByScheduleID(ctx, id)
}
