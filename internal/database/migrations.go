package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AddIndexes adds the composite indexes AutoMigrate does not create.
// Postgres only; it relies on pg_indexes for existence checks.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Task listing is always owner-scoped and position-ordered.
		{"tasks", "idx_tasks_owner_position", "owner_id, position"},

		// Step and attachment lookups are task-scoped.
		{"steps", "idx_steps_task_position", "task_id, position"},
		{"attachments", "idx_attachments_task_position", "task_id, position"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		logrus.WithFields(logrus.Fields{
			"index": idx.name,
			"table": idx.table,
		}).Info("created index")
	}

	return nil
}
