package config

import (
	"log"
	"os"

	"localmart-api/models"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// JWTSecret used to sign tokens — read from env or fallback
var JWTSecret = []byte(getEnv("JWT_SECRET", "localmart_super_secret_2024"))

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// LoadEnv pulls in a local .env file when present. Missing file is fine;
// production sets real environment variables.
func LoadEnv() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}
	JWTSecret = []byte(getEnv("JWT_SECRET", "localmart_super_secret_2024"))
}

func InitDB() {
	dbPath := getEnv("DB_PATH", "localmart.db")
	var err error
	DB, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate all models
	err = DB.AutoMigrate(
		&models.User{},
		&models.Business{},
		&models.Product{},
		&models.Order{},
		&models.OrderStatusHistory{},
		&models.Announcement{},
		&models.PremiumPayment{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	log.Println("✅ Database connected and migrated successfully")
}
