package database

import (
	"log"
	"time"

	"github.com/osirisarpit/Technorage/internal/auth"
	"github.com/osirisarpit/Technorage/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB initializes the database connection and runs migrations
func InitDB(path string) {
	var err error

	// Using glebarez/sqlite which is a pure Go implementation (no CGO required)
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	// Auto-migrate the schema (it will create tables if they don't exist)
	err = DB.AutoMigrate(
		&models.Member{},
		&models.Task{},
		&models.Activity{},
	)

	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	if err := SeedMembers(DB); err != nil {
		log.Fatal("Failed to seed members:", err)
	}

	log.Println("Database connected and migrated successfully")
}

// GetDB returns the database connection
func GetDB() *gorm.DB {
	return DB
}

// SeedMembers inserts the initial roster when the members table is empty so a
// fresh deployment has someone to log in as and assign tasks to.
func SeedMembers(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Member{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword("changeme")
	if err != nil {
		return err
	}

	joined := time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC)
	seed := []models.Member{
		{ID: "usr-1", Name: "Riya Sharma", Email: "riya@gdg.dev", Role: models.RoleLead, Vertical: models.VerticalDesign, SeedRating: 4.8},
		{ID: "usr-2", Name: "Ayush Patel", Email: "ayush@gdg.dev", Role: models.RoleLead, Vertical: models.VerticalPR, SeedRating: 4.5},
		{ID: "usr-3", Name: "Priya Verma", Email: "priya@gdg.dev", Role: models.RoleMember, Vertical: models.VerticalTech, SeedRating: 4.9},
		{ID: "usr-4", Name: "Karan Singh", Email: "karan@gdg.dev", Role: models.RoleMember, Vertical: models.VerticalMarketing, SeedRating: 4.2},
		{ID: "usr-5", Name: "Sneha Gupta", Email: "sneha@gdg.dev", Role: models.RoleMember, Vertical: models.VerticalContent, SeedRating: 4.6},
	}
	for i := range seed {
		seed[i].Password = hash
		seed[i].Avatar = "https://api.dicebear.com/7.x/avataaars/svg?seed=" + seed[i].ID
		seed[i].JoinedAt = joined
	}

	return db.Create(&seed).Error
}
