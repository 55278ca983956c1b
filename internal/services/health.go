package services

import (
	"fmt"

	"github.com/filadex/filadex-server/internal/config"
	"github.com/filadex/filadex-server/internal/models"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck verifies database connectivity and that the schema has been
// seeded with at least one account.
func HealthCheck(cfg *config.Config, db *gorm.DB) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	sqlDB, err := db.DB()
	if err != nil {
		result.Status = "unhealthy"
		result.Database = "error"
		result.ErrorMessage = fmt.Sprintf("Database connection error: %v", err)
		return result
	}

	if err := sqlDB.Ping(); err != nil {
		result.Status = "unhealthy"
		result.Database = "unreachable"
		result.ErrorMessage = fmt.Sprintf("Database ping failed: %v", err)
		return result
	}

	result.Database = "ok"
	result.Details["database_type"] = cfg.DBType

	var users int64
	if err := db.Model(&models.User{}).Count(&users).Error; err != nil {
		result.Status = "unhealthy"
		result.ErrorMessage = fmt.Sprintf("Schema check failed: %v", err)
		return result
	}
	if users == 0 {
		result.Details["seed"] = "pending"
	} else {
		result.Details["seed"] = "ok"
	}

	return result
}
