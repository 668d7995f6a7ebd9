package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"pharmacart/m/internal/api"
	"pharmacart/m/internal/config"
	"pharmacart/m/internal/database"
	"pharmacart/m/internal/migrations"
	"pharmacart/m/internal/seed"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	db := database.Connect(cfg.DatabaseDSN)
	defer db.Close()

	migrations.Run(db)
	seed.LoadMedicines(db, cfg.CatalogCSV)

	handler := api.New(db, cfg.Secret)

	log.Printf("PharmaCart server starting on :%s", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
