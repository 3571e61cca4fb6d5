package routes

import (
	"github.com/osirisarpit/Technorage/internal/handlers"
	"github.com/osirisarpit/Technorage/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(api *handlers.API) *gin.Engine {
	// Create a new GIN Router
	ginRouter := gin.Default()

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Technorage task API is running",
		})
	})

	// Public routes (no authentication required)
	apiGroup := ginRouter.Group("/api")
	{
		apiGroup.POST("/register", api.Register)
		apiGroup.POST("/login", api.Login)

		// Legacy spreadsheet-form compatibility surface
		apiGroup.POST("/sheet/tasks", api.SheetCreateTask)
		apiGroup.GET("/sheet/membertask", api.SheetMemberTask)
	}

	// Protected routes (authentication required)
	protectedRoutes := apiGroup.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware())
	{
		protectedRoutes.GET("/me", api.Me)

		// Task endpoints
		protectedRoutes.GET("/tasks", api.GetTasks)
		protectedRoutes.GET("/tasks/grouped", api.GetGroupedTasks)
		protectedRoutes.GET("/tasks/:id", api.GetTaskByID)
		protectedRoutes.POST("/tasks/:id/assign", api.AssignTask)
		protectedRoutes.POST("/tasks/:id/start", api.StartTask)
		protectedRoutes.POST("/tasks/:id/submit", api.SubmitTask)

		// Member and activity views
		protectedRoutes.GET("/members", api.GetMembers)
		protectedRoutes.GET("/stats/:userid", api.GetMemberStats)
		protectedRoutes.GET("/activities", api.GetActivities)
		protectedRoutes.GET("/suggestions", api.GetSuggestions)

		// Realtime events
		protectedRoutes.GET("/ws", handlers.WebSocketHandler)

		// Lead-only mutations
		leadRoutes := protectedRoutes.Group("")
		leadRoutes.Use(middleware.RequireLead())
		{
			leadRoutes.POST("/tasks", api.CreateTask)
			leadRoutes.PUT("/tasks/:id", api.UpdateTask)
			leadRoutes.DELETE("/tasks/:id", api.DeleteTask)
			leadRoutes.POST("/tasks/:id/approve", api.ApproveTask)
			leadRoutes.POST("/tasks/:id/revise", api.ReviseTask)
		}
	}

	return ginRouter
}
