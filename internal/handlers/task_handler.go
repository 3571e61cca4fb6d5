package handlers

import (
	"net/http"

	"github.com/osirisarpit/Technorage/internal/models"
	"github.com/osirisarpit/Technorage/internal/store"

	"github.com/gin-gonic/gin"
)

// AssignTaskRequest picks the assignee for a task.
type AssignTaskRequest struct {
	MemberID string `json:"memberId" binding:"required"`
}

// ApproveTaskRequest carries the review verdict for a completed submission.
type ApproveTaskRequest struct {
	Rating   int    `json:"rating" binding:"required"`
	Feedback string `json:"feedback"`
}

// ReviseTaskRequest sends a submission back with feedback.
type ReviseTaskRequest struct {
	Feedback string `json:"feedback" binding:"required"`
}

/*
*
GetTasks handles GET /api/tasks
Returns the role-based task view for the authenticated member, newest first.
Optional query params: view (open|mine|all), vertical, status.
*/
func (a *API) GetTasks(c *gin.Context) {
	v := viewer(c)

	var tasks []models.Task
	var err error
	switch c.DefaultQuery("view", "visible") {
	case "open":
		tasks, err = a.store.ListOpen()
	case "all":
		// Unfiltered list; members still only act on what handlers allow
		tasks, err = a.store.List()
	case "mine":
		tasks, err = a.store.VisibleTo(store.Viewer{MemberID: v.MemberID, Role: models.RoleMember, Vertical: v.Vertical})
		if err == nil {
			mine := tasks[:0]
			for _, t := range tasks {
				if t.AssignedTo != nil && *t.AssignedTo == v.MemberID {
					mine = append(mine, t)
				}
			}
			tasks = mine
		}
	default:
		tasks, err = a.store.VisibleTo(v)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}

	if vertical := c.Query("vertical"); vertical != "" {
		filtered := tasks[:0]
		for _, t := range tasks {
			if string(t.Vertical) == vertical {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}
	if status := c.Query("status"); status != "" {
		filtered := tasks[:0]
		for _, t := range tasks {
			if string(t.Status) == status {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"count": len(tasks),
	})
}

// GetGroupedTasks handles GET /api/tasks/grouped
// Returns tasks partitioned by vertical; club-wide tasks are excluded.
func (a *API) GetGroupedTasks(c *gin.Context) {
	groups, err := a.store.GroupedByVertical()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// GetTaskByID handles GET /api/tasks/:id
func (a *API) GetTaskByID(c *gin.Context) {
	task, err := a.store.Get(c.Param("id"))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// CreateTask handles POST /api/tasks (lead only)
func (a *API) CreateTask(c *gin.Context) {
	var input store.CreateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := a.store.Create(input, c.GetString("user_name"))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	a.ranker.Invalidate()

	c.JSON(http.StatusCreated, task)
}

// UpdateTask handles PUT /api/tasks/:id (lead only, partial merge)
func (a *API) UpdateTask(c *gin.Context) {
	var input store.UpdateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := a.store.Update(c.Param("id"), input)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	a.ranker.Invalidate()

	c.JSON(http.StatusOK, task)
}

// DeleteTask handles DELETE /api/tasks/:id (lead only)
func (a *API) DeleteTask(c *gin.Context) {
	taskID := c.Param("id")
	if err := a.store.Delete(taskID); err != nil {
		writeStoreError(c, err)
		return
	}
	a.ranker.Invalidate()

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
		"id":      taskID,
	})
}

// AssignTask handles POST /api/tasks/:id/assign
// Leads assign anyone; members may only pick up an open task for themselves.
func (a *API) AssignTask(c *gin.Context) {
	var req AssignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	v := viewer(c)
	if v.Role != models.RoleLead {
		if req.MemberID != v.MemberID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Members may only assign tasks to themselves"})
			return
		}
		task, err := a.store.Get(c.Param("id"))
		if err != nil {
			writeStoreError(c, err)
			return
		}
		if !task.IsOpen() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Task is not open for self-assignment"})
			return
		}
	}

	task, err := a.store.Assign(c.Param("id"), req.MemberID, c.GetString("user_name"))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	a.ranker.Invalidate()

	c.JSON(http.StatusOK, task)
}

// StartTask handles POST /api/tasks/:id/start
// The assignee resumes work, typically after a revision request.
func (a *API) StartTask(c *gin.Context) {
	if !a.actorMayWorkOn(c) {
		return
	}
	task, err := a.store.Start(c.Param("id"), c.GetString("user_name"))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// SubmitTask handles POST /api/tasks/:id/submit
// The assignee submits their work for review; progress jumps to 100.
func (a *API) SubmitTask(c *gin.Context) {
	if !a.actorMayWorkOn(c) {
		return
	}
	task, err := a.store.Submit(c.Param("id"), c.GetString("user_name"))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// ApproveTask handles POST /api/tasks/:id/approve (lead only)
func (a *API) ApproveTask(c *gin.Context) {
	var req ApproveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := a.store.Approve(c.Param("id"), req.Rating, req.Feedback, c.GetString("user_name"))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	a.ranker.Invalidate()

	c.JSON(http.StatusOK, task)
}

// ReviseTask handles POST /api/tasks/:id/revise (lead only)
func (a *API) ReviseTask(c *gin.Context) {
	var req ReviseTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := a.store.RequestRevision(c.Param("id"), req.Feedback, c.GetString("user_name"))
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// actorMayWorkOn checks that the caller is the task's assignee (or a lead)
// before start/submit. Writes the response itself on failure.
func (a *API) actorMayWorkOn(c *gin.Context) bool {
	v := viewer(c)
	if v.Role == models.RoleLead {
		return true
	}
	task, err := a.store.Get(c.Param("id"))
	if err != nil {
		writeStoreError(c, err)
		return false
	}
	if task.AssignedTo == nil || *task.AssignedTo != v.MemberID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the assignee may act on this task"})
		return false
	}
	return true
}
