package store

import (
	"encoding/json"
	"errors"
	"log"
	"os"

	"github.com/osirisarpit/Technorage/internal/models"

	"github.com/google/uuid"
)

// The SPA this service replaced kept the whole task collection in a single
// localStorage slot named "tasks". Snapshot export/import honors that shape
// so existing data can be carried over and backups stay portable.

// legacyTask mirrors the persisted JSON record. Date-typed fields arrive as
// strings and are revived defensively; a record that cannot be revived is
// skipped rather than failing the whole import.
type legacyTask struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Vertical       string  `json:"vertical"`
	AssignedTo     *string `json:"assignedTo"`
	AssignedToName string  `json:"assignedToName"`
	Status         string  `json:"status"`
	Priority       string  `json:"priority"`
	Deadline       string  `json:"deadline"`
	DeadlineDate   string  `json:"deadlineDate"`
	EstimatedTime  string  `json:"estimatedTime"`
	CreatedAt      string  `json:"createdAt"`
	Attachments    int     `json:"attachments"`
	Progress       int     `json:"progress"`
	Feedback       string  `json:"feedback"`
	Rating         int     `json:"rating"`
}

// Export serializes the full collection, newest first.
func (s *TaskStore) Export() ([]byte, error) {
	tasks, err := s.List()
	if err != nil {
		return nil, err
	}
	return json.Marshal(tasks)
}

// Import deserializes a snapshot and inserts every revivable record. Returns
// the number of imported tasks. Malformed JSON is an error for the caller to
// decide on; Restore turns it into an empty store.
func (s *TaskStore) Import(data []byte) (int, error) {
	var records []legacyTask
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, err
	}

	imported := 0
	for _, rec := range records {
		task, ok := s.revive(rec)
		if !ok {
			continue
		}
		if err := s.db.Create(task).Error; err != nil {
			// Duplicate id or similar; skip the record, keep the rest
			continue
		}
		imported++
	}
	return imported, nil
}

// Restore loads a snapshot file on startup. A missing file means a fresh
// store; a corrupt one is logged and treated as absent. Never fatal.
func (s *TaskStore) Restore(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("snapshot %s unreadable, starting empty: %v", path, err)
		}
		return
	}
	n, err := s.Import(data)
	if err != nil {
		log.Printf("snapshot %s corrupt, starting empty: %v", path, err)
		return
	}
	log.Printf("restored %d tasks from %s", n, path)
}

func (s *TaskStore) revive(rec legacyTask) (*models.Task, bool) {
	if rec.Title == "" {
		return nil, false
	}
	vertical := models.Vertical(rec.Vertical)
	if !models.ValidVertical(vertical) {
		return nil, false
	}

	deadlineDate, ok := parseDateFlexible(rec.DeadlineDate)
	if !ok {
		deadlineDate, ok = parseDateFlexible(rec.Deadline)
		if !ok {
			return nil, false
		}
	}

	createdAt, ok := parseDateFlexible(rec.CreatedAt)
	if !ok {
		createdAt = s.now()
	}

	status := models.TaskStatus(rec.Status)
	// Snapshots from the old app persisted "Overdue" as a status of its own.
	// Overdue is derived here, so map it back to a base status.
	if rec.Status == "Overdue" {
		if rec.AssignedTo != nil {
			status = models.StatusWorking
		} else {
			status = models.StatusAllocated
		}
	}
	if !models.ValidStatus(status) {
		return nil, false
	}

	priority := models.TaskPriority(rec.Priority)
	if !models.ValidPriority(priority) {
		priority = models.PriorityMedium
	}

	id := rec.ID
	if id == "" {
		id = "task-" + uuid.NewString()
	}

	progress := rec.Progress
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	attachments := rec.Attachments
	if attachments < 0 {
		attachments = 0
	}

	task := &models.Task{
		ID:             id,
		Title:          rec.Title,
		Description:    rec.Description,
		Vertical:       vertical,
		AssignedTo:     rec.AssignedTo,
		AssignedToName: rec.AssignedToName,
		Status:         status,
		Priority:       priority,
		Deadline:       deadlineDate.Format(deadlineDisplayLayout),
		DeadlineDate:   deadlineDate,
		EstimatedTime:  rec.EstimatedTime,
		CreatedAt:      createdAt,
		Attachments:    attachments,
		Progress:       progress,
		Feedback:       rec.Feedback,
		Rating:         rec.Rating,
	}
	if task.AssignedTo != nil && *task.AssignedTo == "" {
		task.AssignedTo = nil
	}
	return task, true
}
