package queue

import (
	"time"

	config "github.com/linktraq/linktraq/configs"
	"github.com/linktraq/linktraq/internal/repository"
	"github.com/linktraq/linktraq/internal/service"
)

type Queue struct {
	cfg config.Config
	sr  repository.ScheduleRepository
	pr  repository.PostRepository
	is  service.IntegrationService
	fr  repository.FailureRepository
	lr  repository.LinkRepository
	nr  repository.NotificationRepository
	xs  service.XService
	enq Enqueuer

	retry RetryPolicy
	now   func() time.Time
}

func NewQueue(
	cfg config.Config,
	sr repository.ScheduleRepository,
	pr repository.PostRepository,
	is service.IntegrationService,
	fr repository.FailureRepository,
	lr repository.LinkRepository,
	nr repository.NotificationRepository,
	xs service.XService,
	enq Enqueuer) *Queue {
	return &Queue{
		cfg: cfg,
		sr:  sr,
		pr:  pr,
		is:  is,
		fr:  fr,
		lr:  lr,
		nr:  nr,
		xs:  xs,
		enq: enq,
		retry: RetryPolicy{
			MaxRetries: cfg.MaxRetries,
			Delays:     cfg.RetryDelays,
		},
		now: time.Now,
	}
}

const (
	TaskTypePublishPost = "publish:post"
	TaskTypePublishDead = "publish:dead"
)

type PublishPostPayload struct {
	ScheduleID int64  `json:"schedule_id"`
	PostID     int64  `json:"post_id"`
	Platform   string `json:"sns_platform"`
	RetryCount int    `json:"retry_count"`
}
