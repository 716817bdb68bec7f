package database

import (
	"fmt"
	"log"

	"tunex/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func RunMigrations() {
	if err := Migrate(DB); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	if err := Seed(DB); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Println("✅ Database migration completed")
}

// Seed inserts the fixed role and genre lookup sets and the built-in
// admin account. Safe to call on every boot; existing rows are kept.
func Seed(db *gorm.DB) error {
	for _, name := range []string{models.RoleAdmin, models.RoleCreator, models.RoleUser} {
		role := models.Role{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("failed to seed role %s: %w", name, err)
		}
	}

	for _, name := range []string{"Pop", "Rock", "Hip-Hop", "Classical"} {
		genre := models.Genre{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&genre).Error; err != nil {
			return fmt.Errorf("failed to seed genre %s: %w", name, err)
		}
	}

	return seedAdmin(db)
}

func seedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", "admin@tunex.com").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var adminRole models.Role
	if err := db.Where("name = ?", models.RoleAdmin).First(&adminRole).Error; err != nil {
		return err
	}

	admin := models.User{
		Username:     "TUNEX_ADMIN",
		Email:        "admin@tunex.com",
		PasswordHash: string(hash),
		Roles:        []models.Role{adminRole},
	}

	return db.Create(&admin).Error
}
