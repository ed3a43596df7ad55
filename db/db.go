package db

import (
	"fmt"
	"log"
	"os"

	"tooltrack/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}
	log.Println("Database connected")
	return DB
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.ToolCategory{},
		&models.Tool{},
		&models.Transaction{},
		&models.ReturnImage{},
	); err != nil {
		return err
	}

	// At most one open borrow request per tool. Rejected and completed
	// requests don't block a new one.
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_one_open_per_tool
	  ON %s (tool_id)
	  WHERE status IN ('pending', 'approved', 'active', 'overdue');
	`, models.TransactionTable, models.TransactionTable)).Error; err != nil {
		return err
	}

	// Open-transaction lookups the workflow does on every request.
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_open_tool_borrow_desc
	  ON %s (tool_id, borrow_date DESC)
	  WHERE status IN ('pending', 'approved', 'active', 'overdue');
	`, models.TransactionTable, models.TransactionTable)).Error; err != nil {
		return err
	}

	return nil
}
