package handlers

import (
	"net/http"
	"strings"

	"github.com/osirisarpit/Technorage/internal/models"

	"github.com/gin-gonic/gin"
)

// GetMembers returns the roster with counters derived from the task table.
// GET /api/members, optional ?vertical=
func (a *API) GetMembers(c *gin.Context) {
	q := a.db.Order("id asc")
	if vertical := c.Query("vertical"); vertical != "" {
		q = q.Where("vertical = ?", vertical)
	}

	var members []models.Member
	if err := q.Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch members"})
		return
	}

	resp := make([]models.MemberWithStats, 0, len(members))
	for _, m := range members {
		stats, err := a.store.MemberStats(&m)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
			return
		}
		resp = append(resp, models.MemberWithStats{Member: m, MemberStats: stats})
	}

	c.JSON(http.StatusOK, gin.H{
		"members": resp,
		"count":   len(resp),
	})
}

// GetMemberStats handles GET /api/stats/:userid
// Returns the member's task counts broken down by base status.
func (a *API) GetMemberStats(c *gin.Context) {
	targetID := c.Param("userid")
	if strings.TrimSpace(targetID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userid is required"})
		return
	}

	counts, err := a.store.StatusCounts(targetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}

	var total int64
	for _, n := range counts {
		total += n
	}

	c.JSON(http.StatusOK, gin.H{
		"allocated":        counts[models.StatusAllocated],
		"working":          counts[models.StatusWorking],
		"underReview":      counts[models.StatusUnderReview],
		"completed":        counts[models.StatusCompleted],
		"revisionRequired": counts[models.StatusRevisionRequired],
		"total":            total,
	})
}
