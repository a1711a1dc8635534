package database

import (
	"os"

	"github.com/bistrodev/bistro-pos/models"
	"github.com/bistrodev/bistro-pos/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migrate creates or updates every table this application owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Branch{},
		&models.Table{},
		&models.TableStatusLog{},
		&models.TimeSlot{},
		&models.TimeSlotTable{},
		&models.Reservation{},
		&models.ReservationTable{},
		&models.MenuCategory{},
		&models.Menu{},
		&models.CashSession{},
		&models.Order{},
		&models.OrderItem{},
		&models.CashMovement{},
		&models.Printer{},
		&models.Ticket{},
	)
}

// SeedAdmin creates the initial admin account from ADMIN_EMAIL /
// ADMIN_PASSWORD when no admin exists yet. A fresh install is unusable
// without it; an existing install is left alone.
func SeedAdmin(db *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", "admin").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Name:     "Administrator",
		Email:    email,
		Password: string(hashed),
		Role:     "admin",
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	utils.InfoLogger.Printf("Seeded initial admin account %s", email)
	return nil
}
