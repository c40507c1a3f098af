package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/teamdash/teamdash/db"
	"github.com/teamdash/teamdash/internal/auth"
	"github.com/teamdash/teamdash/internal/logger"
	"github.com/teamdash/teamdash/internal/router"
)

func main() {
	logger.Init("teamdash")
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.L.Warnw("no .env file loaded", "error", err)
	}

	if err := auth.InitJWTSecret(); err != nil {
		logger.L.Fatalw("failed to initialize JWT secret", "error", err)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.L.Fatalw("DATABASE_URL environment variable is not set")
	}

	if err := db.ConnectDatabase(dsn); err != nil {
		logger.L.Fatalw("failed to connect to database", "error", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		logger.L.Fatalw("failed to migrate database", "error", err)
	}

	r := router.NewRouter()

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
		logger.L.Infow("PORT not set, defaulting to 3000")
	}

	if err := r.Run(":" + port); err != nil {
		logger.L.Fatalw("failed to start server", "error", err)
	}
}
