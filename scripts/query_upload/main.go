package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"contactsapp/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Prints a user's upload rows so support can see what storage-side state the
// app believes in without touching S3.
func main() {
	username := flag.String("username", "", "username")
	flag.Parse()
	if *username == "" {
		log.Fatal("--username required")
	}
	dsn := os.Getenv("DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("DB_DSN not set in env")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	var u models.User
	if err := db.Where("username = ?", *username).First(&u).Error; err != nil {
		log.Fatalf("user: %v", err)
	}
	var rows []models.PendingUpload
	if err := db.Where("owner_id = ?", u.ID).Order("id desc").Find(&rows).Error; err != nil {
		log.Fatalf("uploads: %v", err)
	}
	if len(rows) == 0 {
		fmt.Printf("no upload rows for user %s (id=%d)\n", u.Username, u.ID)
		return
	}
	for _, up := range rows {
		fmt.Printf("upload id=%d confirmed=%v path=%s name=%q type=%s size=%d date=%s\n",
			up.ID, up.Confirmed, up.FilePath, up.FileName, up.FileType, up.FileSize, up.FileDate.Format("2006-01-02 15:04:05"))
	}
}
