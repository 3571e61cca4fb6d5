package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/osirisarpit/Technorage/internal/models"
	"github.com/osirisarpit/Technorage/internal/store"

	"github.com/gin-gonic/gin"
)

// The club used to run task intake through a Google Apps Script bound to a
// spreadsheet. These endpoints keep that wire contract alive so the old form
// clients keep working against this service.

// sheetPriority maps the legacy numeric priority onto the enum. The old form
// sent free-form numbers, so anything unrecognized lands on Medium.
func sheetPriority(raw string) models.TaskPriority {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return models.PriorityMedium
	}
	switch n {
	case 1:
		return models.PriorityLow
	case 3:
		return models.PriorityHigh
	default:
		return models.PriorityMedium
	}
}

// SheetCreateTask handles POST /api/sheet/tasks
// Accepts the form-encoded fields the Apps Script endpoint took: TaskTitle,
// Priority (numeric), Vertical, Description, EstimatedTime, Deadline, Status.
// Status is accepted but ignored; creation always starts Allocated.
func (a *API) SheetCreateTask(c *gin.Context) {
	input := store.CreateTaskInput{
		Title:         c.PostForm("TaskTitle"),
		Description:   c.PostForm("Description"),
		Vertical:      models.Vertical(c.PostForm("Vertical")),
		Priority:      sheetPriority(c.PostForm("Priority")),
		Deadline:      c.PostForm("Deadline"),
		EstimatedTime: c.PostForm("EstimatedTime"),
	}

	task, err := a.store.Create(input, "")
	if err != nil {
		writeStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"result": "success",
		"id":     task.ID,
	})
}

// SheetMemberTask handles GET /api/sheet/membertask?username=
// Returns the member's active task in the legacy Name/Vertical/TaskTitle/
// Description shape, or a "no task assigned" message object. An unknown
// username is not an error on this surface.
func (a *API) SheetMemberTask(c *gin.Context) {
	username := strings.TrimSpace(c.Query("username"))
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}

	var member models.Member
	if err := a.db.Where("name = ?", username).First(&member).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"message": "no task assigned"})
		return
	}

	var task models.Task
	err := a.db.
		Where("assigned_to = ? AND status <> ?", member.ID, models.StatusCompleted).
		Order("created_at desc").
		First(&task).Error
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"message": "no task assigned"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"Name":        member.Name,
		"Vertical":    task.Vertical,
		"TaskTitle":   task.Title,
		"Description": task.Description,
	})
}
