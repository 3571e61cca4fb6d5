package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/osirisarpit/Technorage/internal/models"
	"github.com/osirisarpit/Technorage/internal/realtime"
	"github.com/osirisarpit/Technorage/internal/store"
	"github.com/osirisarpit/Technorage/internal/suggest"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// API bundles the handler dependencies. The task store is the only mutation
// surface; handlers never write to the task table directly.
type API struct {
	db     *gorm.DB
	store  *store.TaskStore
	ranker *suggest.Ranker
}

// NewAPI constructs the handler set over a DB and an optional realtime hub.
func NewAPI(db *gorm.DB, hub *realtime.Hub) *API {
	var notifier store.Notifier
	if hub != nil {
		notifier = hub
	}
	s := store.New(db, notifier)
	return &API{
		db:     db,
		store:  s,
		ranker: suggest.NewRanker(db, s),
	}
}

// Store exposes the task store, mainly for startup snapshot restore.
func (a *API) Store() *store.TaskStore {
	return a.store
}

var timeNow = time.Now

// viewer builds the store viewer from the JWT claims the middleware stashed.
func viewer(c *gin.Context) store.Viewer {
	return store.Viewer{
		MemberID: c.GetString("user_id"),
		Role:     models.Role(c.GetString("role")),
		Vertical: models.Vertical(c.GetString("vertical")),
	}
}

// writeStoreError maps store errors onto HTTP responses.
func writeStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case store.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}
