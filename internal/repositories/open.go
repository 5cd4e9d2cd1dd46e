package repositories

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tokotopup/internal/models"
)

// Order store kinds accepted by OpenOrderRepository.
const (
	StoreFile     = "file"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// OpenOrderRepository builds the order store selected by store. The file
// store uses ordersFile; the SQL stores connect to dsn and migrate the
// orders table.
func OpenOrderRepository(store, ordersFile, dsn string) (OrderRepository, error) {
	switch store {
	case "", StoreFile:
		return NewFileOrderRepository(ordersFile)
	case StoreSQLite:
		return openGORM(sqlite.Open(dsn))
	case StorePostgres:
		return openGORM(postgres.Open(dsn))
	default:
		return nil, fmt.Errorf("unknown order store %q", store)
	}
}

func openGORM(dialector gorm.Dialector) (*GORMOrderRepository, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to order database: %w", err)
	}
	if err := db.AutoMigrate(&models.Order{}); err != nil {
		return nil, fmt.Errorf("failed to migrate orders table: %w", err)
	}
	return NewGORMOrderRepository(db), nil
}
