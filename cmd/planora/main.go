package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/planora-dev/planora/db"
	"github.com/planora-dev/planora/internal/auth"
	"github.com/planora-dev/planora/internal/catalog"
	"github.com/planora-dev/planora/internal/router"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	if err := auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize JWT secret: %v", err)
	}

	dsn := os.Getenv("DATABASE_URL")

	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	conn, err := db.Connect(dsn)

	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Migrate(conn); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if path := os.Getenv("CATALOG_CSV"); path != "" {
		if err := catalog.SeedIfEmpty(conn, path); err != nil {
			log.Fatalf("Failed to seed template catalog: %v", err)
		}
	}

	r := router.NewRouter(conn)

	port := os.Getenv("PORT")

	if port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
