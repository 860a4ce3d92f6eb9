// Package migrations embeds the access journal schema into the binary.
package migrations

import (
	"embed"

	"github.com/nerrad567/gray-logic-keypad/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
