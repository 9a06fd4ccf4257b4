package models

import "time"

type PostFailure struct {
	ID             int64     `db:"id" json:"id"`
	PostScheduleID int64     `db:"post_schedule_id" json:"post_schedule_id"`
	UserID         int64     `db:"user_id" json:"user_id"`
	ErrorType      string    `db:"error_type" json:"error_type"`
	ErrorMessage   string    `db:"error_message" json:"error_message"`
	RetryCount     int       `db:"retry_count" json:"retry_count"`
	IsFinalFailure bool      `db:"is_final_failure" json:"is_final_failure"`
	Platform       string    `db:"sns_platform" json:"sns_platform"`
	OccurredAt     time.Time `db:"occurred_at" json:"occurred_at"`
}

const (
	ErrorTypeAuth          = "auth_error"
	ErrorTypeValidation    = "validation_error"
	ErrorTypeNetwork       = "network_error"
	ErrorTypeAPI           = "api_error"
	ErrorTypeConfiguration = "configuration_error"
)
