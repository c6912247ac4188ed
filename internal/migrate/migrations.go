package migrate

import "todolist/internal/config"

// Migration is one named schema-change unit. Up and Down are plain
// statement lists; each statement is executed individually. Names carry
// a zero-padded numeric prefix, and lexicographic order of names is the
// total order in which units apply.
type Migration struct {
	Name string
	Up   []string
	Down []string
}

// Defined returns every migration unit for the given driver. The two
// dialects diverge only where they must: the priority column type and
// the DROP INDEX syntax.
func Defined(driver string) []Migration {
	sqlite := driver == config.DriverSQLite

	priorityColumn := `ALTER TABLE todos ADD COLUMN priority ENUM('low', 'medium', 'high') DEFAULT 'medium'`
	dropCompletedIndex := `DROP INDEX idx_completed ON todos`
	dropCreatedAtIndex := `DROP INDEX idx_created_at ON todos`
	if sqlite {
		priorityColumn = `ALTER TABLE todos ADD COLUMN priority TEXT DEFAULT 'medium'`
		dropCompletedIndex = `DROP INDEX idx_completed`
		dropCreatedAtIndex = `DROP INDEX idx_created_at`
	}

	return []Migration{
		{
			Name: "001-create-todos-table",
			Up: []string{
				`CREATE TABLE IF NOT EXISTS todos (
					id VARCHAR(36) PRIMARY KEY,
					title VARCHAR(255) NOT NULL,
					description TEXT,
					completed BOOLEAN DEFAULT false,
					createdAt TIMESTAMP DEFAULT CURRENT_TIMESTAMP
				)`,
			},
			Down: []string{
				`DROP TABLE IF EXISTS todos`,
			},
		},
		{
			Name: "002-add-priority-field",
			Up:   []string{priorityColumn},
			Down: []string{
				`ALTER TABLE todos DROP COLUMN priority`,
			},
		},
		{
			Name: "003-add-indexes",
			Up: []string{
				`CREATE INDEX idx_completed ON todos (completed)`,
				`CREATE INDEX idx_created_at ON todos (createdAt)`,
			},
			Down: []string{
				dropCompletedIndex,
				dropCreatedAtIndex,
			},
		},
	}
}
