package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jklind/memory-puzzle/internal/httpserver"
	"github.com/jklind/memory-puzzle/internal/store"
	"github.com/jklind/memory-puzzle/internal/symbols"
	"os"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := symbols.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load symbol set")
	}

	db, err := openDB(getEnv("SQLITE_PATH", "./data/app.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("apply migrations")
	}

	sessions := store.NewSessions()
	var saves store.Saves
	if dir := os.Getenv("SAVE_DIR"); dir != "" {
		fs, err := store.NewFileSaves(dir)
		if err != nil {
			log.Fatal().Err(err).Str("dir", dir).Msg("init file saves")
		}
		saves = fs
		log.Info().Str("dir", dir).Msg("using file save store")
	} else {
		saves = store.NewSQLiteSaves(db)
	}

	srv := httpserver.New(sessions, saves, db)
	port := getEnv("PORT", "5176")
	log.Info().Str("port", port).Msg("starting memory-puzzle server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
