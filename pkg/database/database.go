package database

import (
	"log"
	"os"
	"path/filepath"

	"github.com/abdallahade1/ConceptCatch/internal/config"
	"github.com/abdallahade1/ConceptCatch/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, err
			}
		}
	}

	db, err := gorm.Open(sqlite.Open(cfg.Path+"?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Quiz{},
		&model.QuizAttempt{},
		&model.QuestionResponse{},
		&model.StudentMistake{},
		&model.QuizShare{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// Demo accounts so the frontend works against a fresh database.
	var count int64
	db.Model(&model.User{}).Count(&count)
	if count == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("conceptcatch"), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		demoUsers := []model.User{
			{Name: "Dr. Sarah Johnson", Email: "sarah@conceptcatch.com", Role: model.Teacher},
			{Name: "Alex Chen", Email: "alex@student.com", Role: model.Student},
			{Name: "Maria Garcia", Email: "maria@student.com", Role: model.Student},
			{Name: "John Smith", Email: "john@student.com", Role: model.Student},
		}
		for _, u := range demoUsers {
			u.Password = string(hash)
			if err := db.Create(&u).Error; err != nil {
				return nil, err
			}
		}
		log.Println("Demo accounts seeded")
	}

	return db, nil
}
