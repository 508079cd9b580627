package main

import (
	"flag"
	"fmt"

	"finsight/internal/config"
	"finsight/internal/logger"
	"finsight/internal/store"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to config file (optional)")
	flag.Parse()

	log := logger.New()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	log.Info().Str("path", cfg.Database.Path).Msg("Migrating database schema")

	// Open runs the schema migration.
	st, err := store.Open(cfg.Database.Path, cfg.Database.LogMode)
	if err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
	defer st.Close()

	fmt.Printf("Database schema up to date at %s\n", cfg.Database.Path)
}
