package seeders

import (
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/moodz-app/moodz_api/model"
	"github.com/moodz-app/moodz_api/shared"
)

// TherapistSeeder creates demo therapist accounts with profiles.
type TherapistSeeder struct {
	db *gorm.DB
}

func NewTherapistSeeder(db *gorm.DB) *TherapistSeeder {
	return &TherapistSeeder{db: db}
}

type demoTherapist struct {
	email     string
	username  string
	bio       string
	specialty string
}

var demoTherapists = []demoTherapist{
	{"kim.ngan@moodz.app", "kimngan", "Licensed clinical psychologist with 10 years of practice.", "Anxiety"},
	{"minh.tri@moodz.app", "minhtri", "CBT practitioner focused on young adults.", "Depression"},
	{"thu.ha@moodz.app", "thuha", "Family and couples counselor.", "Relationships"},
}

func (s *TherapistSeeder) SeedTherapists() error {
	for _, t := range demoTherapists {
		var existing model.User
		if err := s.db.Where("email = ?", t.email).First(&existing).Error; err == nil {
			continue
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte("Therapist1"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		userID, err := uuid.NewV7()
		if err != nil {
			return err
		}

		user := model.User{
			ID:        userID.String(),
			Email:     t.email,
			Username:  t.username,
			Password:  string(hashed),
			Role:      shared.RoleTherapist,
			Status:    shared.UserStatusActive,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := s.db.Create(&user).Error; err != nil {
			return err
		}

		profileID, err := uuid.NewV7()
		if err != nil {
			return err
		}

		profile := model.TherapistProfile{
			ID:        profileID.String(),
			UserID:    user.ID,
			Bio:       t.bio,
			Specialty: t.specialty,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := s.db.Create(&profile).Error; err != nil {
			return err
		}

		log.Printf("Created demo therapist: %s", t.email)
	}

	return nil
}
