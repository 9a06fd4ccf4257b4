package models

import "time"

type PostSchedule struct {
	ID          int64      `db:"id" json:"id"`
	PostID      int64      `db:"post_id" json:"post_id"`
	Platform    string     `db:"sns_platform" json:"sns_platform"`
	ScheduledAt time.Time  `db:"scheduled_at" json:"scheduled_at"`
	Status      string     `db:"status" json:"status"`
	RetryCount  int        `db:"retry_count" json:"retry_count"`
	LastError   *string    `db:"last_error" json:"last_error"`
	LastRetryAt *time.Time `db:"last_retry_at" json:"last_retry_at"`
	NextRetryAt *time.Time `db:"next_retry_at" json:"next_retry_at"`
	PublishedAt *time.Time `db:"published_at" json:"published_at"`
}

const (
	ScheduleStatusPending    = "pending"
	ScheduleStatusProcessing = "processing"
	ScheduleStatusPublished  = "published"
	ScheduleStatusFailed     = "failed"
)

const (
	PlatformX         = "x"
	PlatformInstagram = "instagram"
	PlatformFacebook  = "facebook"
)

func IsValidPlatform(platform string) bool {
	switch platform {
	case PlatformX, PlatformInstagram, PlatformFacebook:
		return true
	}
	return false
}
