package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"contactsapp/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	username := flag.String("username", "", "username (required)")
	password := flag.String("password", "", "password (required, min 6)")
	email := flag.String("email", "", "email address")
	first := flag.String("first", "", "first name")
	last := flag.String("last", "", "last name")
	admin := flag.Bool("admin", false, "grant the administrator role")
	flag.Parse()
	if *username == "" || *password == "" {
		fmt.Println("usage: go run ./cmd/create_user --username u --password p [--email e] [--first f] [--last l] [--admin]")
		os.Exit(2)
	}
	if len(*password) < 6 {
		log.Fatal("password too short (min 6)")
	}

	dsn := os.Getenv("DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("DB_DSN not set in environment")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}

	roleName := "user"
	if *admin {
		roleName = "administrator"
	}
	var role models.Role
	if err := db.Where("name = ?", roleName).First(&role).Error; err != nil {
		role = models.Role{Name: roleName}
		db.Create(&role)
	}

	var existing models.User
	if err := db.Where("username = ?", *username).First(&existing).Error; err == nil {
		fmt.Printf("user %s already exists (id=%d)\n", *username, existing.ID)
		os.Exit(0)
	}

	hpw, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("bcrypt failed: %v", err)
	}
	rid := role.ID
	user := models.User{
		Username:       *username,
		Email:          *email,
		FirstName:      *first,
		LastName:       *last,
		HashedPassword: hpw,
		RoleID:         &rid,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("failed to create user: %v", err)
	}
	fmt.Printf("created user %s id=%d role=%s\n", *username, user.ID, roleName)
}
