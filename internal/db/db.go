package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/campaigndeck/campaigndeck-backend/internal/logger"
	"github.com/campaigndeck/campaigndeck-backend/internal/utils"
)

// Service is what the wiring layer needs from a database backend.
type Service interface {
	DB() *gorm.DB
	AutoMigrateAll() error
}

// New picks the backend from DB_DRIVER: "postgres" (default) or "sqlite".
func New(log *logger.Logger) (Service, error) {
	driver := utils.GetEnv("DB_DRIVER", "postgres", log)
	switch driver {
	case "postgres":
		return NewPostgresService(log)
	case "sqlite":
		return NewSQLiteService(log)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", driver)
	}
}
