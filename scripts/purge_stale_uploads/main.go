package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"contactsapp/models"
	"contactsapp/pkg/storage"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Unconfirmed upload rows are normally collected lazily when their owner next
// queries status. Owners who never come back leave rows (and objects) behind;
// this sweeps them in bulk.
func main() {
	age := flag.Duration("age", 24*time.Hour, "only purge unconfirmed rows older than this")
	dry := flag.Bool("dry-run", true, "preview actions without modifying the DB or storage")
	yes := flag.Bool("yes", false, "confirm destructive action when dry-run=false")
	flag.Parse()

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN must be set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect db: %v", err)
	}

	cutoff := time.Now().Add(-*age)
	var rows []models.PendingUpload
	if err := db.Where("confirmed = ? AND created_at < ?", false, cutoff).Find(&rows).Error; err != nil {
		log.Fatalf("query failed: %v", err)
	}
	fmt.Printf("Found %d unconfirmed upload rows older than %s\n", len(rows), age)
	for _, r := range rows {
		fmt.Printf(" - id=%d owner=%d path=%s created=%s\n", r.ID, r.OwnerID, r.FilePath, r.CreatedAt.Format(time.RFC3339))
	}
	if *dry {
		fmt.Println("dry-run: no changes made. Use --dry-run=false --yes to execute.")
		return
	}
	if !*yes {
		fmt.Println("Destructive! Pass --yes to proceed.")
		return
	}

	ctx := context.Background()
	signer, err := storage.NewS3Signer(ctx, storage.S3ConfigFromEnv())
	if err != nil {
		log.Fatalf("storage signer: %v", err)
	}
	for _, r := range rows {
		if err := signer.DeleteObject(ctx, r.FilePath); err != nil {
			log.Printf("ignoring storage delete error for %s: %v", r.FilePath, err)
		}
		if err := db.Delete(&models.PendingUpload{}, r.ID).Error; err != nil {
			log.Fatalf("row delete failed (id=%d): %v", r.ID, err)
		}
	}
	fmt.Printf("Purged %d rows\n", len(rows))
}
