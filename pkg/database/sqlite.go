package database

import (
	"fmt"

	"github.com/Alwanly/fleet-dashboard/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewSQLiteDB(path string) (*gorm.DB, error) {
	if path == "" {
		path = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if path == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database connection: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

func RunMigrations(db *gorm.DB) error {

	models := []interface{}{
		&models.Node{},
		&models.NodeEvent{},
		&models.NodeSSHKey{},
		&models.WireGuardPeer{},
		&models.OSPFNeighbor{},
		&models.NodeEnrollmentRequest{},
		&models.DeploymentSettings{},
		&models.KubernetesClusterSummary{},
		&models.IPPool{},
		&models.IPAllocation{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
