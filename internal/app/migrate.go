package app

import (
	"context"
	_ "embed"
)

//go:embed schema.sql
var schemaSQL string

// MustMigrate applies the schema. Every statement is IF NOT EXISTS,
// so re-running is harmless.
func MustMigrate() {
	_, err := globalPostgresPool.Exec(context.Background(), schemaSQL)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to apply schema")
		panic(err)
	}
	globalLogger.Info().Msg("applied schema")
}
