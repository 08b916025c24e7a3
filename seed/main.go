package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/moodz-app/moodz_api/seed/seeders"
	"github.com/moodz-app/moodz_api/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var (
		seedType = flag.String("type", "all", "Type of seeding: all, admin, therapists")
		dbPath   = flag.String("db", "", "Database path (overrides DB_NAME env var)")
		help     = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	databasePath := *dbPath
	if databasePath == "" {
		databasePath = os.Getenv("DB_NAME")
		if databasePath == "" {
			databasePath = "moodz.db"
		}
	}

	db, err := gorm.Open(sqlite.Open(databasePath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Printf("Connected to database: %s", databasePath)

	if err := db.AutoMigrate(services.Models()...); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	mainSeeder := seeders.NewMainSeeder(db)

	switch *seedType {
	case "all":
		err = mainSeeder.SeedAll()
	case "admin":
		err = mainSeeder.SeedAdmin()
	case "therapists":
		err = mainSeeder.SeedTherapists()
	default:
		log.Fatalf("Unknown seed type: %s", *seedType)
	}

	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}

func showHelp() {
	log.Println("Usage: seed [-type all|admin|therapists] [-db path]")
	log.Println("  -type  What to seed (default all)")
	log.Println("  -db    SQLite database path (overrides DB_NAME)")
}
