package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"finsight/internal/config"
	"finsight/internal/logger"
	"finsight/internal/notionexport"
	"finsight/internal/store"
)

func main() {
	log := logger.New()

	configPath := flag.String("config", "", "Path to config file (optional)")
	firstName := flag.String("first", "", "User first name (required)")
	lastName := flag.String("last", "", "User last name (required)")
	startDateStr := flag.String("start-date", "", "Start date in YYYY-MM-DD format (required)")
	endDateStr := flag.String("end-date", "", "End date in YYYY-MM-DD format (required)")
	flag.Parse()

	if *firstName == "" || *lastName == "" {
		log.Fatal().Msg("Error: --first and --last are required")
	}
	if *startDateStr == "" || *endDateStr == "" {
		log.Fatal().Msg("Error: --start-date and --end-date are required")
	}

	startDate, err := time.Parse("2006-01-02", *startDateStr)
	if err != nil {
		log.Fatal().Err(err).Str("start_date", *startDateStr).Msg("Error: invalid start-date format, expected YYYY-MM-DD")
	}
	endDate, err := time.Parse("2006-01-02", *endDateStr)
	if err != nil {
		log.Fatal().Err(err).Str("end_date", *endDateStr).Msg("Error: invalid end-date format, expected YYYY-MM-DD")
	}
	if endDate.Before(startDate) {
		log.Fatal().
			Time("start_date", startDate).
			Time("end_date", endDate).
			Msg("Error: end-date must be after start-date")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if cfg.Notion.Token == "" || cfg.Notion.DatabaseID == "" {
		log.Fatal().Msg("Error: notion.token and notion.database_id must be configured (or FIN_NOTION_TOKEN / FIN_NOTION_DATABASE_ID)")
	}
	log = logger.NewWithLevel(cfg.Log.Level)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	st, err := store.Open(cfg.Database.Path, cfg.Database.LogMode)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer st.Close()

	user, err := st.FindUser(ctx, *firstName, *lastName)
	if err != nil {
		log.Fatal().Err(err).Msg("User lookup failed")
	}
	if user == nil {
		log.Fatal().Str("first", *firstName).Str("last", *lastName).Msg("User not found")
	}

	exporter := notionexport.NewExporter(st, notionexport.NewNotionClient(cfg.Notion.Token), cfg.Notion.DatabaseID)
	if err := exporter.Export(ctx, user.ID, startDate, endDate); err != nil {
		log.Fatal().Err(err).Msg("Notion export failed")
	}

	fmt.Println("Notion export completed successfully.")
}
