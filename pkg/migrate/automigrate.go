package migrate

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/pkg/db/models"
)

// sqlite has no goose schema; these mirror the postgres-only indexes the models cannot express.
var sqliteIndexes = []string{
	"CREATE UNIQUE INDEX IF NOT EXISTS addresses_one_default_idx ON addresses (account_id) WHERE is_default",
}

// AutoMigrate builds the schema from the gorm models. Used for sqlite dev databases and tests.
func AutoMigrate(ctx context.Context, conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db is required")
	}
	tx := conn.WithContext(ctx)
	if err := tx.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for _, stmt := range sqliteIndexes {
		if err := tx.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}
