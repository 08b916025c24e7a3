package seeders

import (
	"log"

	"gorm.io/gorm"
)

// MainSeeder runs the individual seeders in dependency order.
type MainSeeder struct {
	db *gorm.DB

	adminSeeder     *AdminSeeder
	therapistSeeder *TherapistSeeder
}

func NewMainSeeder(db *gorm.DB) *MainSeeder {
	return &MainSeeder{
		db:              db,
		adminSeeder:     NewAdminSeeder(db),
		therapistSeeder: NewTherapistSeeder(db),
	}
}

func (s *MainSeeder) SeedAll() error {
	log.Println("Seeding admin user...")
	if err := s.adminSeeder.SeedAdmin(); err != nil {
		return err
	}

	log.Println("Seeding demo therapists...")
	if err := s.therapistSeeder.SeedTherapists(); err != nil {
		return err
	}

	log.Println("Seeding complete")
	return nil
}

func (s *MainSeeder) SeedAdmin() error {
	return s.adminSeeder.SeedAdmin()
}

func (s *MainSeeder) SeedTherapists() error {
	return s.therapistSeeder.SeedTherapists()
}
