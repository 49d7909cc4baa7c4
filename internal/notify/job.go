package notify

import "time"

type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// Job is one queued email in the outbox.
type Job struct {
	ID string `gorm:"primaryKey;size:26"` // ULID length

	Kind      string `gorm:"type:varchar(32);index;not null"`
	Recipient string `gorm:"type:varchar(320);not null"`
	Subject   string `gorm:"type:varchar(512);not null"`
	HTML      string `gorm:"type:mediumtext"`
	Text      string `gorm:"type:text"`

	IdempotencyKey *string `gorm:"type:varchar(128);uniqueIndex"`

	Status   JobStatus `gorm:"type:varchar(16);index;not null"`
	Attempts int       `gorm:"not null"`

	// Filled when failed
	LastError *string `gorm:"type:text"`

	SentAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Job) TableName() string { return "notification_jobs" }

func (j *Job) Message() Message {
	return Message{To: j.Recipient, Subject: j.Subject, HTML: j.HTML, Text: j.Text}
}
