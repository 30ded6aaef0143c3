package app

import (
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/mkrail/go-todo-web/internal/config"
)

func MustReadEnv() {
	cfg, err := config.NewEnvReader().Read()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to read env")
		panic(err)
	}
	globalLogger.Info().
		Str("env", cfg.Env).
		Msg("read env")

	config.SetGlobal(cfg)
}

// MustEnsureMediaRoot creates the media directory tree so the first
// upload and the static file handler don't race over it.
func MustEnsureMediaRoot() {
	root := config.Global().Media.Root

	err := os.MkdirAll(root, 0o755)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("root", root).
			Msg("failed to create media root")
		panic(err)
	}
	globalLogger.Info().
		Str("root", root).
		Msg("media root ready")
}
