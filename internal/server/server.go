// Package server is the sync backend: session auth, owner-scoped note CRUD
// over Postgres, and a websocket change feed per user.
package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"stickpad/pkg/logger"
)

// Connect opens the Postgres pool from environment variables and verifies it
// with a short retry loop for transient DNS or network blips.
func Connect() *sql.DB {
	if err := godotenv.Load(); err != nil {
		logger.Sugar.Info("No .env file found, using environment variables from OS")
	}

	dbUser := strings.TrimSpace(os.Getenv("user"))
	dbPass := strings.TrimSpace(os.Getenv("password"))
	dbHost := strings.TrimSpace(os.Getenv("host"))
	dbPort := strings.TrimSpace(os.Getenv("port"))
	dbName := strings.TrimSpace(os.Getenv("dbname"))

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=require", dbUser, dbPass, dbHost, dbPort, dbName)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		logger.Sugar.Fatalf("Failed to open database connection: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err = db.Ping(); err == nil {
			logger.Sugar.Info("Successfully connected to the database")
			return db
		}
		logger.Sugar.Infof("Database connection failed, retrying in 2s... (%v)", err)
		time.Sleep(2 * time.Second)
	}
	logger.Sugar.Fatal("Could not connect to database after retries")
	return nil
}

// Run starts the backend on addr and blocks.
func Run(addr string) error {
	db := Connect()
	defer db.Close()

	hub := NewHub()
	go hub.Run()

	logger.Sugar.Infof("Backend listening on %s", addr)
	return http.ListenAndServe(addr, Setup(db, hub))
}
