package models

import (
	"time"
)

// ActivityType classifies what happened to a task.
type ActivityType string

const (
	ActivityCreated    ActivityType = "created"
	ActivityAssigned   ActivityType = "assigned"
	ActivityStarted    ActivityType = "started"
	ActivitySubmission ActivityType = "submission"
	ActivityCompleted  ActivityType = "completed"
	ActivityRevision   ActivityType = "revision"
)

// Activity is an append-only log entry written by every task store mutation.
// Entries are never updated or deleted; deleting a task leaves its history in
// place.
type Activity struct {
	ID           string       `json:"id" gorm:"primaryKey"`
	Type         ActivityType `json:"type" gorm:"not null"`
	TaskID       string       `json:"taskId" gorm:"column:task_id;index"`
	TaskTitle    string       `json:"taskTitle" gorm:"column:task_title"`
	MemberName   string       `json:"memberName" gorm:"column:member_name"`
	MemberAvatar string       `json:"memberAvatar" gorm:"column:member_avatar"`
	Vertical     Vertical     `json:"vertical"`
	CreatedAt    time.Time    `json:"timestamp" gorm:"column:created_at"`
}

// TableName specifies the table name for Activity Model
func (Activity) TableName() string {
	return "activities"
}
