// seed-admin creates or updates the superuser account used to bootstrap a
// new installation.
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-admin
//
// Username, password and email come from SEED_ADMIN_USERNAME,
// SEED_ADMIN_PASSWORD and SEED_ADMIN_EMAIL.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/models"
	"github.com/defensoria/siri-backend/utils"
	"gorm.io/gorm"
)

func main() {
	ctx := context.Background()

	username := strings.TrimSpace(os.Getenv("SEED_ADMIN_USERNAME"))
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	email := strings.TrimSpace(os.Getenv("SEED_ADMIN_EMAIL"))
	if username == "" || password == "" {
		fmt.Fprintln(os.Stderr, "SEED_ADMIN_USERNAME and SEED_ADMIN_PASSWORD are required")
		os.Exit(1)
	}

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}
	hashedStr := string(hashed)

	var existing models.User
	err = db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).First(&existing).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			fmt.Fprintf(os.Stderr, "failed to lookup user: %v\n", err)
			os.Exit(1)
		}
		u := models.User{
			Username:    username,
			Email:       email,
			Password:    hashedStr,
			IsSuperuser: true,
		}
		if err := db.WithContext(ctx).Create(&u).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to create superuser: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Created superuser: username=%q\n", username)
		return
	}

	// Update existing user: ensure password and superuser flag
	if err := db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Updates(map[string]any{
		"password":     hashedStr,
		"email":        email,
		"is_superuser": true,
	}).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to update superuser: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Updated superuser: username=%q\n", username)
}
