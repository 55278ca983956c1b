package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/filadex/filadex-server/internal/config"
	"github.com/filadex/filadex-server/internal/database"
	"github.com/filadex/filadex-server/internal/services"
)

// Standalone health probe for container HEALTHCHECK directives: connects
// with the same configuration as the server, prints the health report and
// exits non-zero when unhealthy.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	result := services.HealthCheck(cfg, db)

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal health check result: %v", err)
	}

	fmt.Println(string(output))

	if result.Status != "healthy" {
		os.Exit(1)
	}
}
