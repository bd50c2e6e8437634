package server

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"

	"HireDesk-backend/internal/database"
)

// MyServer holds the database instance shared by every route handler.
type MyServer struct {
	DB *database.Instance
}

// NewServer constructs an http.Server bound to PORT with the routes
// registered against the given database instance.
func NewServer(db *database.Instance) *http.Server {
	port, _ := strconv.Atoi(os.Getenv("PORT"))
	if port == 0 {
		port = 8080
	}

	s := &MyServer{DB: db}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}
