package main

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"medcamp/internal/config"
	"medcamp/internal/db"
	"medcamp/internal/model"
	"medcamp/internal/repository"
)

const (
	defaultAdminName = "FreeDoctor Admin"
	defaultAdminOrg  = "FreeDoctorMed"
)

func main() {
	log.Println("Starting seed script...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("ADMIN_PASSWORD must be set")
	}

	// Connect to database
	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	created, err := seedAdmin(context.Background(), repository.NewUserRepository(gormDB), repository.NewProfileRepository(gormDB), cfg.AdminEmail, password)
	if err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}
	if created {
		log.Printf("Created admin user %s", cfg.AdminEmail)
	} else {
		log.Printf("Updated admin user %s", cfg.AdminEmail)
	}
	log.Println("Seed completed")
}

// seedAdmin creates the admin account, or resets its password and role when it exists.
// Running it twice leaves one admin user.
func seedAdmin(ctx context.Context, users repository.UserRepository, profiles repository.ProfileRepository, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}

	user, err := users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = &model.User{Email: email, PasswordHash: string(hash), Role: model.RoleAdmin}
		profile := &model.Profile{FullName: defaultAdminName, Organization: defaultAdminOrg}
		return true, users.CreateWithProfile(ctx, user, profile)
	case err != nil:
		return false, err
	}

	user.PasswordHash = string(hash)
	user.Role = model.RoleAdmin
	if err := users.Save(ctx, user); err != nil {
		return false, err
	}
	if _, err := profiles.FindByUserID(ctx, user.ID); errors.Is(err, gorm.ErrRecordNotFound) {
		return false, profiles.Upsert(ctx, &model.Profile{UserID: user.ID, FullName: defaultAdminName, Organization: defaultAdminOrg})
	}
	return false, nil
}
