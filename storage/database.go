package storage

import (
	"log"
	"os"

	"github.com/Yash-patil03/Area-Stay-point/models"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func connectToDB() *gorm.DB {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		err := godotenv.Load()
		if err != nil {
			log.Println("Warning: Could not load .env file (this is normal in production)")
		}
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Panic("DB_CONNECTION_STRING environment variable is required")
	}

	db, dbError := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if dbError != nil {
		log.Panic("error connection to db: " + dbError.Error())
	}

	DB = db
	return db
}

func performMigrations(db *gorm.DB) {
	db.AutoMigrate(
		&models.User{},
		&models.PG{},
		&models.Booking{},
		&models.Review{},
	)
}

func InitializeDB() *gorm.DB {
	db := connectToDB()
	performMigrations(db)
	return db
}

// SeedListings inserts a starter set of PGs when the table is empty so a
// fresh deployment has something to browse.
func SeedListings() {
	var count int64
	DB.Model(&models.PG{}).Count(&count)
	if count > 0 {
		return
	}

	log.Println("Seeding database with initial PGs...")

	seeds := []models.PG{
		{
			Name:          "Luxury Stay - Hinjewadi",
			Address:       "Hinjewadi Phase 1, Pune, Maharashtra",
			Price:         12000,
			Description:   "Premium PG with all amenities including WiFi, cleaning, and meal services. Close to IT parks.",
			OwnerUsername: "seed_owner",
			Gender:        "Co-ed",
		},
		{
			Name:          "Cozy Corner - Kothrud",
			Address:       "Kothrud Depot, Pune, Maharashtra",
			Price:         8500,
			Description:   "Affordable and homely PG for students and working professionals. Walking distance from MIT college.",
			OwnerUsername: "seed_owner",
			Gender:        "Girls",
		},
		{
			Name:          "Skyline Towers - Viman Nagar",
			Address:       "Viman Nagar, Pune, Maharashtra",
			Price:         15000,
			Description:   "High-rise apartment share with gym, pool, and 24/7 security. Near Phoenix Mall.",
			OwnerUsername: "seed_owner",
			Gender:        "Boys",
		},
		{
			Name:          "Green Valley - Baner",
			Address:       "Baner Road, Pune, Maharashtra",
			Price:         10500,
			Description:   "Spacious PG surrounded by greenery. Includes breakfast and dinner. Easy access to highway.",
			OwnerUsername: "seed_owner",
			Gender:        "Co-ed",
		},
	}
	images := [][]string{
		{
			"https://images.unsplash.com/photo-1522771753033-6a50363d769e?q=80&w=2070&auto=format&fit=crop",
			"https://images.unsplash.com/photo-1502672260266-1c1ef2d93688?q=80&w=2080&auto=format&fit=crop",
		},
		{"https://images.unsplash.com/photo-1596276020587-8044fe049813?q=80&w=2039&auto=format&fit=crop"},
		{"https://images.unsplash.com/photo-1505691938895-1758d7bab58d?q=80&w=2070&auto=format&fit=crop"},
		{"https://images.unsplash.com/photo-1493663284031-b7e3aefcae8e?q=80&w=2070&auto=format&fit=crop"},
	}
	for i := range seeds {
		seeds[i].SetImageURLs(images[i])
	}

	if err := DB.Create(&seeds).Error; err != nil {
		log.Println("Warning: seeding listings failed:", err)
		return
	}
	log.Printf("Database seeded with %d PGs.", len(seeds))
}
