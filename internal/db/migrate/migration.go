package migrate

import (
	"log"

	"gorm.io/gorm"

	"github.com/Simple2B/bidhive-ml-api/internal/model"
)

// DBMigrateAll migrates every table schema.
func DBMigrateAll(db *gorm.DB) {
	log.Println("Starting table migrations")

	if err := db.AutoMigrate(&model.UploadedFile{}); err != nil {
		log.Fatal("Uploaded files table migration failed:", err)
	}

	log.Println("Table migrations completed")
}
