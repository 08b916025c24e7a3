package seeders

import (
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/moodz-app/moodz_api/model"
	"github.com/moodz-app/moodz_api/shared"
)

// AdminSeeder creates the default admin account.
type AdminSeeder struct {
	db *gorm.DB
}

func NewAdminSeeder(db *gorm.DB) *AdminSeeder {
	return &AdminSeeder{db: db}
}

func (s *AdminSeeder) SeedAdmin() error {
	var existing model.User
	if err := s.db.Where("role = ?", shared.RoleAdmin).First(&existing).Error; err == nil {
		log.Println("Admin user already exists, skipping admin seeding")
		return nil
	}

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "Admin1234"
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}

	admin := model.User{
		ID:        id.String(),
		Email:     "admin@moodz.app",
		Username:  "admin",
		Password:  string(hashed),
		Role:      shared.RoleAdmin,
		Status:    shared.UserStatusActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.db.Create(&admin).Error; err != nil {
		log.Printf("Error creating admin user: %v", err)
		return err
	}

	log.Printf("Created admin user: %s", admin.Email)
	return nil
}
