// Command api starts the HireDesk HTTP server.
package main

import (
	"log"

	"HireDesk-backend/internal/database"
	"HireDesk-backend/internal/server"
)

// @title HireDesk API
// @version 1.0
// @description Job board backend: recruiters post job listings, candidates apply, recruiters track applications through the hiring pipeline.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @BasePath /api/v1
func main() {
	db, err := database.GetMainDB()
	if err != nil {
		log.Fatalf("Database failed to initialize: %s", err)
	}

	srv := server.NewServer(db)

	log.Printf("Listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Cannot start server: %s", err)
	}
}
