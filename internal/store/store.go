package store

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/osirisarpit/Technorage/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notifier receives a JSON event for every store mutation. The realtime hub
// satisfies this; tests may pass nil.
type Notifier interface {
	Broadcast(channel string, message []byte)
}

// TaskStore is the single writer over the task table. Every mutation goes
// through one of its operations; retrieved records are copies, so callers
// cannot mutate stored state behind its back. Each mutation appends an
// Activity entry in the same transaction and notifies the hub afterwards.
type TaskStore struct {
	db       *gorm.DB
	notifier Notifier
	now      func() time.Time
}

// New constructs a TaskStore. notifier may be nil.
func New(db *gorm.DB, notifier Notifier) *TaskStore {
	return &TaskStore{db: db, notifier: notifier, now: time.Now}
}

// deadlineDisplayLayout is the human-readable rendering kept next to the
// machine-comparable date.
const deadlineDisplayLayout = "Jan 2, 2006"

func parseDateFlexible(dateStr string) (time.Time, bool) {
	if dateStr == "" {
		return time.Time{}, false
	}
	layouts := []string{
		"2006-01-02", // ISO date (what date inputs send)
		deadlineDisplayLayout,
		"2 Jan 2006",
		time.RFC3339,
		"02 Jan 2006",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CreateTaskInput carries the caller-supplied fields for a new task. Title,
// vertical and deadline are required; priority and estimate default.
type CreateTaskInput struct {
	Title         string              `json:"title" binding:"required"`
	Description   string              `json:"description"`
	Vertical      models.Vertical     `json:"vertical" binding:"required"`
	Priority      models.TaskPriority `json:"priority"`
	Deadline      string              `json:"deadline" binding:"required"`
	EstimatedTime string              `json:"estimatedTime"`
}

// Create validates the input and inserts a new task. New tasks are always
// unassigned, Allocated, at progress 0 with no attachments, regardless of
// what the caller might wish for.
func (s *TaskStore) Create(input CreateTaskInput, actorName string) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, invalid("title", "must not be empty")
	}
	if !models.ValidVertical(input.Vertical) {
		return nil, invalid("vertical", "unknown vertical")
	}
	deadlineDate, ok := parseDateFlexible(input.Deadline)
	if !ok {
		return nil, invalid("deadline", "unparseable date")
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidPriority(priority) {
		return nil, invalid("priority", "unknown priority")
	}

	task := models.Task{
		ID:            "task-" + uuid.NewString(),
		Title:         input.Title,
		Description:   input.Description,
		Vertical:      input.Vertical,
		AssignedTo:    nil,
		Status:        models.StatusAllocated,
		Priority:      priority,
		Deadline:      deadlineDate.Format(deadlineDisplayLayout),
		DeadlineDate:  deadlineDate,
		EstimatedTime: input.EstimatedTime,
		CreatedAt:     s.now(),
		Attachments:   0,
		Progress:      0,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&task).Error; err != nil {
			return err
		}
		return s.appendActivity(tx, models.ActivityCreated, &task, actorName)
	})
	if err != nil {
		return nil, err
	}

	s.notify("task_created", &task)
	s.decorate(&task)
	return &task, nil
}

// UpdateTaskInput is a partial merge: nil fields are left untouched.
type UpdateTaskInput struct {
	Title         *string              `json:"title"`
	Description   *string              `json:"description"`
	Vertical      *models.Vertical     `json:"vertical"`
	AssignedTo    *string              `json:"assignedTo"`
	Status        *models.TaskStatus   `json:"status"`
	Priority      *models.TaskPriority `json:"priority"`
	Deadline      *string              `json:"deadline"`
	EstimatedTime *string              `json:"estimatedTime"`
	Progress      *int                 `json:"progress"`
	Attachments   *int                 `json:"attachments"`
	Feedback      *string              `json:"feedback"`
	Rating        *int                 `json:"rating"`
}

// Update applies a partial merge onto the task matched by id. An unknown id
// fails with ErrNotFound. A new deadline string recomputes the derived date;
// a status change must follow the state machine.
func (s *TaskStore) Update(id string, input UpdateTaskInput) (*models.Task, error) {
	var task models.Task
	if err := s.db.Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, invalid("title", "must not be empty")
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Vertical != nil {
		if !models.ValidVertical(*input.Vertical) {
			return nil, invalid("vertical", "unknown vertical")
		}
		task.Vertical = *input.Vertical
	}
	if input.AssignedTo != nil {
		member, err := s.member(*input.AssignedTo)
		if err != nil {
			return nil, err
		}
		task.AssignedTo = &member.ID
		task.AssignedToName = member.Name
	}
	if input.Status != nil && *input.Status != task.Status {
		if !models.ValidStatus(*input.Status) {
			return nil, invalid("status", "unknown status")
		}
		if !models.CanTransition(task.Status, *input.Status) {
			return nil, invalid("status", "illegal transition from "+string(task.Status))
		}
		task.Status = *input.Status
		// Reaching review or completion implies the work is done
		if task.Status == models.StatusUnderReview || task.Status == models.StatusCompleted {
			task.Progress = 100
		}
	}
	if input.Priority != nil {
		if !models.ValidPriority(*input.Priority) {
			return nil, invalid("priority", "unknown priority")
		}
		task.Priority = *input.Priority
	}
	if input.Deadline != nil {
		deadlineDate, ok := parseDateFlexible(*input.Deadline)
		if !ok {
			return nil, invalid("deadline", "unparseable date")
		}
		task.Deadline = deadlineDate.Format(deadlineDisplayLayout)
		task.DeadlineDate = deadlineDate
	}
	if input.EstimatedTime != nil {
		task.EstimatedTime = *input.EstimatedTime
	}
	if input.Progress != nil {
		if *input.Progress < 0 || *input.Progress > 100 {
			return nil, invalid("progress", "must be between 0 and 100")
		}
		task.Progress = *input.Progress
	}
	if input.Attachments != nil {
		if *input.Attachments < 0 {
			return nil, invalid("attachments", "must not be negative")
		}
		task.Attachments = *input.Attachments
	}
	if input.Feedback != nil {
		task.Feedback = *input.Feedback
	}
	if input.Rating != nil {
		if *input.Rating < 1 || *input.Rating > 5 {
			return nil, invalid("rating", "must be between 1 and 5")
		}
		task.Rating = *input.Rating
	}

	// An unassigned task must never be in Working
	if task.AssignedTo == nil && task.Status == models.StatusWorking {
		return nil, invalid("status", "unassigned task cannot be Working")
	}
	// Progress must agree with the status after the merge
	if task.Status == models.StatusAllocated && task.Progress != 0 {
		return nil, invalid("progress", "must be 0 while Allocated")
	}
	if (task.Status == models.StatusUnderReview || task.Status == models.StatusCompleted) && task.Progress != 100 {
		return nil, invalid("progress", "must be 100 once under review or completed")
	}

	if err := s.db.Save(&task).Error; err != nil {
		return nil, err
	}

	s.notify("task_updated", &task)
	s.decorate(&task)
	return &task, nil
}

// Delete removes the task permanently. Activity history stays; the log is
// append-only.
func (s *TaskStore) Delete(id string) error {
	res := s.db.Where("id = ?", id).Delete(&models.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.notifyID("task_deleted", id, "")
	return nil
}

// Get returns a single task by id.
func (s *TaskStore) Get(id string) (*models.Task, error) {
	var task models.Task
	if err := s.db.Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.decorate(&task)
	return &task, nil
}

// List returns all tasks newest-first.
func (s *TaskStore) List() ([]models.Task, error) {
	var tasks []models.Task
	if err := s.db.Order("created_at desc").Find(&tasks).Error; err != nil {
		return nil, err
	}
	s.decorateAll(tasks)
	return tasks, nil
}

// Assign hands the task to a member and moves it into Working. Leads may
// assign anyone; members may only pick up open tasks for themselves, which
// the handler enforces.
func (s *TaskStore) Assign(id, memberID, actorName string) (*models.Task, error) {
	var task models.Task
	if err := s.db.Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if task.Status == models.StatusCompleted {
		return nil, invalid("status", "task is already completed")
	}
	member, err := s.member(memberID)
	if err != nil {
		return nil, err
	}

	task.AssignedTo = &member.ID
	task.AssignedToName = member.Name
	if task.Status == models.StatusAllocated {
		task.Status = models.StatusWorking
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&task).Error; err != nil {
			return err
		}
		return s.appendActivity(tx, models.ActivityAssigned, &task, member.Name)
	})
	if err != nil {
		return nil, err
	}

	s.notify("task_assigned", &task)
	s.decorate(&task)
	return &task, nil
}

// Start resumes work after a revision request (Revision Required -> Working)
// or begins an already-assigned Allocated task.
func (s *TaskStore) Start(id, actorName string) (*models.Task, error) {
	var task models.Task
	if err := s.db.Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if task.AssignedTo == nil {
		return nil, invalid("assignedTo", "task has no assignee")
	}
	if !models.CanTransition(task.Status, models.StatusWorking) {
		return nil, invalid("status", "cannot start from "+string(task.Status))
	}
	task.Status = models.StatusWorking

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&task).Error; err != nil {
			return err
		}
		return s.appendActivity(tx, models.ActivityStarted, &task, actorName)
	})
	if err != nil {
		return nil, err
	}

	s.notify("task_started", &task)
	s.decorate(&task)
	return &task, nil
}

// Submit sends the task to review and forces progress to 100.
func (s *TaskStore) Submit(id, actorName string) (*models.Task, error) {
	var task models.Task
	if err := s.db.Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !models.CanTransition(task.Status, models.StatusUnderReview) {
		return nil, invalid("status", "cannot submit from "+string(task.Status))
	}
	task.Status = models.StatusUnderReview
	task.Progress = 100

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&task).Error; err != nil {
			return err
		}
		return s.appendActivity(tx, models.ActivitySubmission, &task, actorName)
	})
	if err != nil {
		return nil, err
	}

	s.notify("task_submitted", &task)
	s.decorate(&task)
	return &task, nil
}

// Approve completes a reviewed task, recording the rating and optional
// feedback. Progress is already 100 from submission.
func (s *TaskStore) Approve(id string, rating int, feedback, actorName string) (*models.Task, error) {
	if rating < 1 || rating > 5 {
		return nil, invalid("rating", "must be between 1 and 5")
	}
	var task models.Task
	if err := s.db.Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !models.CanTransition(task.Status, models.StatusCompleted) {
		return nil, invalid("status", "cannot approve from "+string(task.Status))
	}
	task.Status = models.StatusCompleted
	task.Rating = rating
	if feedback != "" {
		task.Feedback = feedback
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&task).Error; err != nil {
			return err
		}
		return s.appendActivity(tx, models.ActivityCompleted, &task, actorName)
	})
	if err != nil {
		return nil, err
	}

	s.notify("task_completed", &task)
	s.decorate(&task)
	return &task, nil
}

// RequestRevision sends a reviewed task back with mandatory feedback.
func (s *TaskStore) RequestRevision(id, feedback, actorName string) (*models.Task, error) {
	if strings.TrimSpace(feedback) == "" {
		return nil, invalid("feedback", "must not be empty")
	}
	var task models.Task
	if err := s.db.Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !models.CanTransition(task.Status, models.StatusRevisionRequired) {
		return nil, invalid("status", "cannot request revision from "+string(task.Status))
	}
	task.Status = models.StatusRevisionRequired
	task.Feedback = feedback

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&task).Error; err != nil {
			return err
		}
		return s.appendActivity(tx, models.ActivityRevision, &task, actorName)
	})
	if err != nil {
		return nil, err
	}

	s.notify("task_revision_requested", &task)
	s.decorate(&task)
	return &task, nil
}

// Activities returns the newest log entries, capped at limit.
func (s *TaskStore) Activities(limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = 50
	}
	var activities []models.Activity
	if err := s.db.Order("created_at desc").Limit(limit).Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

func (s *TaskStore) member(id string) (*models.Member, error) {
	var m models.Member
	if err := s.db.Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid("assignedTo", "member not found")
		}
		return nil, err
	}
	return &m, nil
}

func (s *TaskStore) appendActivity(tx *gorm.DB, typ models.ActivityType, task *models.Task, actorName string) error {
	avatar := ""
	if actorName != "" {
		var m models.Member
		if err := tx.Where("name = ?", actorName).First(&m).Error; err == nil {
			avatar = m.Avatar
		}
	}
	activity := models.Activity{
		ID:           "act-" + uuid.NewString(),
		Type:         typ,
		TaskID:       task.ID,
		TaskTitle:    task.Title,
		MemberName:   actorName,
		MemberAvatar: avatar,
		Vertical:     task.Vertical,
		CreatedAt:    s.now(),
	}
	return tx.Create(&activity).Error
}

// decorate computes the derived overdue flag against the store clock.
func (s *TaskStore) decorate(task *models.Task) {
	task.Overdue = task.IsOverdue(s.now())
}

func (s *TaskStore) decorateAll(tasks []models.Task) {
	now := s.now()
	for i := range tasks {
		tasks[i].Overdue = tasks[i].IsOverdue(now)
	}
}

func (s *TaskStore) notify(eventType string, task *models.Task) {
	s.notifyID(eventType, task.ID, string(task.Vertical))
}

func (s *TaskStore) notifyID(eventType, taskID, vertical string) {
	if s.notifier == nil {
		return
	}
	evt := map[string]any{
		"type":    eventType,
		"taskId":  taskID,
		"version": 1,
	}
	if vertical != "" {
		evt["vertical"] = vertical
	}
	bytes, err := json.Marshal(evt)
	if err != nil {
		return
	}
	if vertical != "" && vertical != string(models.VerticalOverallClub) {
		s.notifier.Broadcast(vertical, bytes)
	}
	// Everything also lands on the club-wide channel
	s.notifier.Broadcast(string(models.VerticalOverallClub), bytes)
}
