package board

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/jhcode/board/pkg/migration"
)

//go:embed migrations/*.sql
var migrations embed.FS

// initSchema applies the embedded migrations to db.
func initSchema(db *sql.DB) error {
	if err := migration.Run(db, migrations, "migrations"); err != nil {
		return fmt.Errorf("apply board migrations: %w", err)
	}
	return nil
}
