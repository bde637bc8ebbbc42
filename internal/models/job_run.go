package models

import "time"

const (
	RunStatusOK     = "ok"
	RunStatusFailed = "failed"
)

// JobRun is one execution of a scheduled job
type JobRun struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" bson:"_id" json:"id"`
	Job        string    `gorm:"column:job;index:idx_job_run_job_started" bson:"job" json:"job"`
	Trigger    string    `gorm:"column:triggered_by" bson:"triggered_by" json:"triggered_by"`
	StartedAt  time.Time `gorm:"column:started_at;index:idx_job_run_job_started" bson:"started_at" json:"started_at"`
	FinishedAt time.Time `gorm:"column:finished_at" bson:"finished_at" json:"finished_at"`
	Status     string    `gorm:"column:status" bson:"status" json:"status"`
	Error      string    `gorm:"column:error;type:text" bson:"error,omitempty" json:"error,omitempty"`
	PostIDs    string    `gorm:"column:post_ids" bson:"post_ids,omitempty" json:"post_ids,omitempty"`
}

func (JobRun) TableName() string { return "tweetbot_job_runs" }
