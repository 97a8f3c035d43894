package notification

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/nao1215/pushnotify/pkg/migration"
)

//go:embed migrations/*.sql
var migrations embed.FS

// initSchema はSQLiteデータベースにマイグレーションを適用する。
func initSchema(ctx context.Context, db *sql.DB, logger zerolog.Logger) error {
	if _, err := migration.NewRunner(db, migrations, "migrations", logger).Run(ctx); err != nil {
		return fmt.Errorf("スキーマの適用に失敗: %w", err)
	}
	return nil
}
