package main

import (
	"log"

	"github.com/joho/godotenv"

	"backend/internal/app/config"
	"backend/internal/app/repository"
)

func main() {
	// Загрузка переменных окружения из .env файла
	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to read config: %v", err)
	}

	// repository.New выполняет AutoMigrate всех таблиц при подключении
	if _, err := repository.New(cfg.DSN()); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Println("Database migration completed successfully")
}
