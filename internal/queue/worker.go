package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/linktraq/linktraq/internal/models"
	"github.com/linktraq/linktraq/internal/service"
)

func (q *Queue) HandlePublishPostTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal publish payload: %v: %w", err, asynq.SkipRetry)
	}

	return q.PublishScheduled(ctx, payload)
}

// PublishScheduled turns one queue message into at most one delivery
// attempt. A nil return acknowledges the message; an error is returned
// only for store and queue infrastructure failures, leaving the
// message to queue-level redelivery. Every publish failure is resolved
// here into a retry or a terminal outcome before acknowledging.
func (q *Queue) PublishScheduled(ctx context.Context, payload PublishPostPayload) error {
	schedule, err := q.sr.GetByID(ctx, payload.ScheduleID)
	if err != nil {
		return err
	}
	if schedule == nil {
		// Deleted out-of-band. Nothing to deliver, nothing to retry.
		log.Printf("Schedule %d not found, dropping message", payload.ScheduleID)
		return nil
	}

	// At-least-once delivery can hand this message to a second worker,
	// or redeliver it after the first attempt already resolved the
	// schedule. Anything out of pending means another attempt owns it.
	if schedule.Status != models.ScheduleStatusPending {
		log.Printf("Schedule %d is %s, skipping", schedule.ID, schedule.Status)
		return nil
	}

	claimed, err := q.sr.ClaimProcessing(ctx, schedule.ID)
	if err != nil {
		return err
	}
	if !claimed {
		log.Printf("Schedule %d claimed by another worker, skipping", schedule.ID)
		return nil
	}

	post, err := q.pr.GetByID(ctx, schedule.PostID)
	if err != nil {
		return err
	}
	if post == nil {
		slog.Info("post missing for claimed schedule", "schedule_id", schedule.ID, "post_id", schedule.PostID)
		if err := q.sr.MarkFailed(ctx, schedule.ID); err != nil {
			return err
		}
		return q.enq.EnqueueDeadLetter(ctx, payload)
	}

	integration, err := q.is.Resolve(ctx, post.UserID, schedule.Platform)
	if err != nil {
		if errors.Is(err, service.ErrCredentialUnusable) {
			return q.finalizeFailure(ctx, schedule, post.UserID, payload, models.ErrorTypeConfiguration, err)
		}
		return err
	}
	if integration == nil {
		// No credentials on file. Retrying cannot succeed without
		// different input, so this is terminal regardless of the
		// retry budget.
		cfgErr := fmt.Errorf("no %s integration for user %d", schedule.Platform, post.UserID)
		return q.finalizeFailure(ctx, schedule, post.UserID, payload, models.ErrorTypeConfiguration, cfgErr)
	}

	content, err := q.assembleContent(ctx, post)
	if err != nil {
		return err
	}

	postID, pubErr := q.publish(ctx, schedule.Platform, integration.AccessToken, content)
	if pubErr != nil {
		return q.handlePublishError(ctx, schedule, post.UserID, payload, pubErr)
	}

	if err := q.sr.MarkPublished(ctx, schedule.ID, q.now()); err != nil {
		return err
	}

	log.Printf("Schedule %d published to %s (post id %s)", schedule.ID, schedule.Platform, postID)
	return nil
}

func (q *Queue) assembleContent(ctx context.Context, post *models.Post) (string, error) {
	var shortLink string
	if post.ProductID != nil {
		link, err := q.lr.GetFirstByProductID(ctx, *post.ProductID)
		if err != nil {
			return "", err
		}
		if link != nil {
			shortLink = q.cfg.ShortLinkDomain + "/" + link.ShortCode
		}
	}

	return BuildContent(post.Content, post.Hashtags, shortLink), nil
}

func (q *Queue) publish(ctx context.Context, platform, accessToken, content string) (string, error) {
	switch platform {
	case models.PlatformX:
		return q.xs.PostTweet(ctx, accessToken, content)
	case models.PlatformInstagram:
		return "", fmt.Errorf("instagram posting not implemented")
	case models.PlatformFacebook:
		return "", fmt.Errorf("facebook posting not implemented")
	default:
		return "", fmt.Errorf("unsupported platform: %s", platform)
	}
}

// handlePublishError resolves a failed attempt: record it in the
// failure ledger, then either push the schedule back to pending with a
// backoff window or finalize it as failed.
func (q *Queue) handlePublishError(ctx context.Context, schedule *models.PostSchedule, userID int64, payload PublishPostPayload, pubErr error) error {
	errType := ClassifyError(pubErr)

	if q.retry.Exhausted(schedule.RetryCount) {
		return q.finalizeFailure(ctx, schedule, userID, payload, errType, pubErr)
	}

	failure := &models.PostFailure{
		PostScheduleID: schedule.ID,
		UserID:         userID,
		ErrorType:      errType,
		ErrorMessage:   pubErr.Error(),
		RetryCount:     schedule.RetryCount,
		IsFinalFailure: false,
		Platform:       schedule.Platform,
		OccurredAt:     q.now(),
	}
	if _, err := q.fr.Create(ctx, failure); err != nil {
		return err
	}

	now := q.now()
	nextRetryAt := now.Add(q.retry.Delay(schedule.RetryCount))
	if err := q.sr.ScheduleRetry(ctx, schedule.ID, pubErr.Error(), now, nextRetryAt); err != nil {
		return err
	}

	log.Printf("Schedule %d failed (%s), retry %d at %s", schedule.ID, errType, schedule.RetryCount+1, nextRetryAt)
	return nil
}

func (q *Queue) finalizeFailure(ctx context.Context, schedule *models.PostSchedule, userID int64, payload PublishPostPayload, errType string, pubErr error) error {
	failure := &models.PostFailure{
		PostScheduleID: schedule.ID,
		UserID:         userID,
		ErrorType:      errType,
		ErrorMessage:   pubErr.Error(),
		RetryCount:     schedule.RetryCount,
		IsFinalFailure: true,
		Platform:       schedule.Platform,
		OccurredAt:     q.now(),
	}
	if _, err := q.fr.Create(ctx, failure); err != nil {
		return err
	}

	if err := q.sr.MarkFailed(ctx, schedule.ID); err != nil {
		return err
	}

	if err := q.enq.EnqueueDeadLetter(ctx, payload); err != nil {
		return err
	}

	notification := &models.Notification{
		UserID:  userID,
		Type:    models.NotificationTypePostFailure,
		Title:   "Scheduled post failed",
		Message: fmt.Sprintf("Your %s post could not be published: %s", schedule.Platform, pubErr.Error()),
	}
	if _, err := q.nr.Create(ctx, notification); err != nil {
		// The failure is already ledgered and dead-lettered; a lost
		// notification row is not worth a redelivery loop.
		slog.Info(err.Error())
	}

	log.Printf("Schedule %d finalized as failed (%s)", schedule.ID, errType)
	return nil
}
