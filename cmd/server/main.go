package main

import (
	"log"
	"os"

	"github.com/osirisarpit/Technorage/internal/database"
	"github.com/osirisarpit/Technorage/internal/handlers"
	"github.com/osirisarpit/Technorage/internal/realtime"
	"github.com/osirisarpit/Technorage/internal/routes"
)

func main() {
	// Init database
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "technorage.db"
	}
	database.InitDB(dbPath)

	api := handlers.NewAPI(database.GetDB(), realtime.GetHub())

	// One-time carry-over from the old SPA's localStorage dump, if present
	if snapshot := os.Getenv("TASKS_SNAPSHOT"); snapshot != "" {
		api.Store().Restore(snapshot)
	}

	// Setup the routes (public and protected routes)
	ginRoutes := routes.SetupRoutes(api)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = ":8008"
	} else if port[0] != ':' {
		port = ":" + port
	}
	log.Printf("Server starting on port %s", port)
	log.Println("API endpoints:")
	log.Println("  POST   /api/register")
	log.Println("  POST   /api/login")
	log.Println("  GET    /api/tasks")
	log.Println("  GET    /api/tasks/grouped")
	log.Println("  GET    /api/tasks/:id")
	log.Println("  POST   /api/tasks")
	log.Println("  PUT    /api/tasks/:id")
	log.Println("  DELETE /api/tasks/:id")
	log.Println("  POST   /api/tasks/:id/{assign,start,submit,approve,revise}")
	log.Println("  GET    /api/members")
	log.Println("  GET    /api/activities")
	log.Println("  GET    /api/suggestions")
	log.Println("  GET    /api/ws")
	log.Println("  GET    /health")

	if err := ginRoutes.Run(port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
