package database

import (
	"log"

	"pos-backend/internal/config"
	"pos-backend/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	if err := Seed(DB, cfg); err != nil {
		log.Fatalf("Seed failed: %v", err)
	}

	log.Println("Database connection ready. Migration complete.")
}

// Migrate runs schema migration for every entity. Exported so tests can run
// it against their own database handle.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.MenuItem{},
		&models.Cart{},
		&models.CartLine{},
		&models.Sale{},
		&models.SaleItem{},
		&models.BillSequence{},
		&models.AuditLog{},
	)
}

// Seed creates the initial admin account and the default menu on an empty
// store, so a fresh deployment is usable without manual SQL.
func Seed(db *gorm.DB, cfg *config.Config) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Username:     "admin",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Active:       true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	menu := []models.MenuItem{
		{Name: "Full Ticket", Price: 580},
		{Name: "Half Ticket", Price: 300},
		{Name: "Three Ticket", Price: 150},
	}
	if err := db.Create(&menu).Error; err != nil {
		return err
	}

	log.Println("Seeded default admin and menu.")
	return nil
}
