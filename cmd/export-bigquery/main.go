package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"finsight/internal/analytics"
	"finsight/internal/config"
	"finsight/internal/logger"
	"finsight/internal/store"
)

func main() {
	log := logger.New()

	configPath := flag.String("config", "", "Path to config file (optional)")
	firstName := flag.String("first", "", "User first name (required)")
	lastName := flag.String("last", "", "User last name (required)")
	startDateStr := flag.String("start-date", "", "Start date in YYYY-MM-DD format (required)")
	endDateStr := flag.String("end-date", "", "End date in YYYY-MM-DD format (required)")
	summary := flag.Bool("summary", false, "Print per-category totals after exporting")
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

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if cfg.BigQuery.Project == "" {
		log.Fatal().Msg("Error: bigquery.project must be configured (or FIN_BIGQUERY_PROJECT)")
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

	exporter, err := analytics.NewExporter(ctx, cfg.BigQuery.Project, cfg.BigQuery.Dataset, cfg.BigQuery.Table)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create BigQuery exporter")
	}
	defer exporter.Close()

	n, err := exporter.Export(ctx, st, user.ID, startDate, endDate)
	if err != nil {
		log.Fatal().Err(err).Msg("BigQuery export failed")
	}
	fmt.Printf("Exported %d transaction(s) to %s.%s.\n", n, cfg.BigQuery.Dataset, cfg.BigQuery.Table)

	if *summary {
		totals, err := exporter.CategoryTotals(ctx, user.ID, startDate, endDate)
		if err != nil {
			log.Fatal().Err(err).Msg("Category summary failed")
		}
		for _, t := range totals {
			fmt.Printf("  %-24s %10.2f  (%d)\n", t.Category, t.Total, t.Count)
		}
	}
}
