package models

import (
	"time"
)

// TaskStatus represents the base status of a task. Overdue is intentionally
// not a member of this enum: it is derived from the deadline at read time.
type TaskStatus string

const (
	StatusAllocated        TaskStatus = "Allocated"
	StatusWorking          TaskStatus = "Working"
	StatusUnderReview      TaskStatus = "Under Review"
	StatusCompleted        TaskStatus = "Completed"
	StatusRevisionRequired TaskStatus = "Revision Required"
)

// TaskPriority represents the priority of a task
type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
)

// Vertical is a functional sub-team that owns tasks. VerticalOverallClub is a
// sentinel for club-wide tasks visible to every member.
type Vertical string

const (
	VerticalOperations  Vertical = "Operations"
	VerticalPR          Vertical = "PR"
	VerticalDesign      Vertical = "Design"
	VerticalTech        Vertical = "Tech"
	VerticalMarketing   Vertical = "Marketing"
	VerticalSocialMedia Vertical = "Social Media"
	VerticalContent     Vertical = "Content"

	VerticalOverallClub Vertical = "Overall Club"
)

// Verticals lists the real sub-teams, excluding the club-wide sentinel.
var Verticals = []Vertical{
	VerticalOperations,
	VerticalPR,
	VerticalDesign,
	VerticalTech,
	VerticalMarketing,
	VerticalSocialMedia,
	VerticalContent,
}

// ValidVertical reports whether v is a known vertical or the club-wide sentinel.
func ValidVertical(v Vertical) bool {
	if v == VerticalOverallClub {
		return true
	}
	for _, known := range Verticals {
		if v == known {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known base status.
func ValidStatus(s TaskStatus) bool {
	switch s {
	case StatusAllocated, StatusWorking, StatusUnderReview, StatusCompleted, StatusRevisionRequired:
		return true
	}
	return false
}

// ValidPriority reports whether p is a known priority.
func ValidPriority(p TaskPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// transitions is the status state machine: Allocated -> Working -> Under
// Review -> {Completed | Revision Required}; Revision Required -> Working for
// resubmission. Completed is terminal.
var transitions = map[TaskStatus][]TaskStatus{
	StatusAllocated:        {StatusWorking},
	StatusWorking:          {StatusUnderReview},
	StatusUnderReview:      {StatusCompleted, StatusRevisionRequired},
	StatusRevisionRequired: {StatusWorking},
	StatusCompleted:        {},
}

// CanTransition reports whether a task may move from one base status to another.
func CanTransition(from, to TaskStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Task represents a unit of work owned by one vertical
type Task struct {
	ID             string       `json:"id" gorm:"primaryKey"`
	Title          string       `json:"title" gorm:"not null"`
	Description    string       `json:"description"`
	Vertical       Vertical     `json:"vertical" gorm:"not null;index"`
	AssignedTo     *string      `json:"assignedTo" gorm:"column:assigned_to;index"`
	AssignedToName string       `json:"assignedToName,omitempty" gorm:"column:assigned_to_name"`
	Status         TaskStatus   `json:"status" gorm:"not null;default:'Allocated'"`
	Priority       TaskPriority `json:"priority" gorm:"default:'Medium'"`
	Deadline       string       `json:"deadline" gorm:"not null"`
	DeadlineDate   time.Time    `json:"deadlineDate" gorm:"column:deadline_date;not null"`
	EstimatedTime  string       `json:"estimatedTime" gorm:"column:estimated_time"`
	CreatedAt      time.Time    `json:"createdAt" gorm:"column:created_at"`
	Attachments    int          `json:"attachments" gorm:"default:0"`
	Progress       int          `json:"progress" gorm:"default:0"`
	Feedback       string       `json:"feedback,omitempty"`
	Rating         int          `json:"rating,omitempty"`
	Overdue        bool         `json:"overdue" gorm:"-"`
	UpdatedAt      time.Time    `json:"-"`
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "tasks"
}

// IsOverdue reports whether the task's deadline has passed without completion.
// Evaluated against the caller's clock so stored state never goes stale.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.Status != StatusCompleted && t.DeadlineDate.Before(now)
}

// IsOpen reports whether the task is open for self-assignment: unassigned or
// tagged club-wide, regardless of status.
func (t *Task) IsOpen() bool {
	return t.AssignedTo == nil || t.Vertical == VerticalOverallClub
}
