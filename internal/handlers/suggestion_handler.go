package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetSuggestions handles GET /api/suggestions
// Returns up to five assignee candidates, best score first.
func (a *API) GetSuggestions(c *gin.Context) {
	suggestions, err := a.ranker.Suggest()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rank members"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"suggestions": suggestions,
		"count":       len(suggestions),
	})
}
