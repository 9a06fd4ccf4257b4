package job

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/linktraq/linktraq/internal/queue"
	"github.com/linktraq/linktraq/internal/repository"
)

// ScheduleScannerJob finds schedules that are actionable right now and
// hands each one to the delivery queue. It never mutates the schedule
// store: a crash between selection and enqueue just means the next
// scan picks the schedule up again.
type ScheduleScannerJob struct {
	sr  repository.ScheduleRepository
	enq queue.Enqueuer
	now func() time.Time
}

func NewScheduleScannerJob(sr repository.ScheduleRepository, enq queue.Enqueuer) *ScheduleScannerJob {
	return &ScheduleScannerJob{
		sr:  sr,
		enq: enq,
		now: time.Now,
	}
}

func (j *ScheduleScannerJob) ScanDueSchedules() {
	ctx := context.Background()

	schedules, err := j.sr.ListDue(ctx, j.now())
	if err != nil {
		slog.Info(err.Error())
		return
	}
	if len(schedules) == 0 {
		return
	}

	queued := 0
	for _, s := range schedules {
		payload := queue.PublishPostPayload{
			ScheduleID: s.ID,
			PostID:     s.PostID,
			Platform:   s.Platform,
			RetryCount: s.RetryCount,
		}

		if err := j.enq.EnqueuePost(ctx, payload); err != nil {
			slog.Info(err.Error())
			continue
		}
		queued++
	}

	log.Printf("Queued %d of %d due schedules", queued, len(schedules))
}
