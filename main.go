package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"contactsapp/pkg/contacts"
	"contactsapp/pkg/ratings"
	"contactsapp/pkg/storage"
	"contactsapp/pkg/uploads"

	"github.com/gin-gonic/gin"
)

var jwtSecret []byte // loaded from env JWT_SECRET (fallback to dev default)

// service handles wired in initServices; handlers read these.
var (
	contactRepo *contacts.Repository
	ratingAcc   *ratings.Accumulator
	uploadMgr   *uploads.Manager
)

func main() {
	// Auto-load ./.env if present (no external dependency) before reading vars
	loadDotEnv()
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-insecure-secret-change" // development fallback
	}
	jwtSecret = []byte(secret)

	// Support a lightweight migrate command: `./contactsapp migrate`
	// It runs AutoMigrate and seeding then exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		initDB()
		fmt.Println("migration and seeding completed")
		return
	}

	initDB()

	signer, err := storage.NewS3Signer(context.Background(), storage.S3ConfigFromEnv())
	if err != nil {
		log.Fatalf("storage signer: %v", err)
	}
	initServices(signer)

	r := gin.Default()

	setupRoutes(r)

	r.Run(":8081")
}

func initServices(signer storage.Signer) {
	contactRepo = contacts.NewRepository(db)
	ratingAcc = ratings.NewAccumulator(db)
	uploadMgr = uploads.NewManager(db, signer, os.Getenv("S3_PREFIX"))
}

// loadDotEnv loads key=value pairs from a local .env file into the environment
// without overwriting variables that are already set. Lines starting with # are ignored.
func loadDotEnv() {
	path := ".env"
	if _, err := os.Stat(path); err != nil {
		return // no .env file
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// split on first '='
		if eq := strings.IndexByte(line, '='); eq > 0 {
			key := strings.TrimSpace(line[:eq])
			val := strings.TrimSpace(line[eq+1:])
			if _, exists := os.LookupEnv(key); !exists {
				_ = os.Setenv(key, val)
			}
		}
	}
}
