package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"finsight/internal/classify"
	"finsight/internal/config"
	"finsight/internal/logger"
	"finsight/internal/store"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "transactions":
		runTransactions(log)
	case "dates":
		runDates(log)
	case "correct":
		runCorrect(log)
	case "comment":
		runComment(log)
	case "comments":
		runComments(log)
	case "delete-user":
		runDeleteUser(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Finsight CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  transactions  Show a user's transactions in a date range")
	fmt.Println("  dates         Show a user's transaction dates")
	fmt.Println("  correct       Correct the category/place of a description")
	fmt.Println("  comment       Add a comment")
	fmt.Println("  comments      List a user's comments")
	fmt.Println("  delete-user   Delete a user and all their data")
	fmt.Println("  help          Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

// openStore loads config and opens the database; shared by every command.
func openStore(configPath string, log zerolog.Logger) (*store.Store, context.Context) {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	ctx := logger.WithContext(context.Background(), logger.NewWithLevel(cfg.Log.Level))

	st, err := store.Open(cfg.Database.Path, cfg.Database.LogMode)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	return st, ctx
}

func lookupUser(ctx context.Context, st *store.Store, first, last string, log zerolog.Logger) *store.User {
	if first == "" || last == "" {
		log.Fatal().Msg("Error: -first and -last are required")
	}
	user, err := st.FindUser(ctx, first, last)
	if err != nil {
		log.Fatal().Err(err).Msg("User lookup failed")
	}
	if user == nil {
		log.Fatal().Str("first", first).Str("last", last).Msg("User not found")
	}
	return user
}

func parseRange(startStr, endStr string, log zerolog.Logger) (time.Time, time.Time) {
	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		log.Fatal().Err(err).Str("start_date", startStr).Msg("Error: invalid start-date format, expected YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		log.Fatal().Err(err).Str("end_date", endStr).Msg("Error: invalid end-date format, expected YYYY-MM-DD")
	}
	if end.Before(start) {
		log.Fatal().Msg("Error: end-date must be after start-date")
	}
	return start, end
}

func runTransactions(log zerolog.Logger) {
	fs := flag.NewFlagSet("transactions", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	first := fs.String("first", "", "User first name")
	last := fs.String("last", "", "User last name")
	startStr := fs.String("start-date", "", "Start date YYYY-MM-DD")
	endStr := fs.String("end-date", "", "End date YYYY-MM-DD")
	fs.Parse(os.Args[2:])

	st, ctx := openStore(*configPath, log)
	defer st.Close()
	user := lookupUser(ctx, st, *first, *last, log)
	start, end := parseRange(*startStr, *endStr, log)

	rows, err := st.TransactionsInRange(ctx, user.ID, start, end)
	if err != nil {
		log.Fatal().Err(err).Msg("Query failed")
	}

	for _, r := range rows {
		place := ""
		if r.Place != nil {
			place = *r.Place
		}
		fmt.Printf("%-6d %s %10.2f  %-24s %-16s %s\n",
			r.TransactionID, r.Date.Format("2006-01-02"), r.Amount, r.Category, place, r.Description)
	}
	fmt.Printf("%d transaction(s)\n", len(rows))
}

func runDates(log zerolog.Logger) {
	fs := flag.NewFlagSet("dates", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	first := fs.String("first", "", "User first name")
	last := fs.String("last", "", "User last name")
	fs.Parse(os.Args[2:])

	st, ctx := openStore(*configPath, log)
	defer st.Close()
	user := lookupUser(ctx, st, *first, *last, log)

	dates, err := st.TransactionDates(ctx, user.ID)
	if err != nil {
		log.Fatal().Err(err).Msg("Query failed")
	}
	if len(dates) == 0 {
		fmt.Println("No transactions.")
		return
	}
	fmt.Printf("%d transaction(s), %s to %s\n",
		len(dates), dates[0].Format("2006-01-02"), dates[len(dates)-1].Format("2006-01-02"))
}

func runCorrect(log zerolog.Logger) {
	fs := flag.NewFlagSet("correct", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	first := fs.String("first", "", "User first name")
	last := fs.String("last", "", "User last name")
	description := fs.String("description", "", "Exact transaction description to correct")
	category := fs.String("category", "", "New category")
	place := fs.String("place", "", "New place (optional)")
	fs.Parse(os.Args[2:])

	if *description == "" || *category == "" {
		log.Fatal().Msg("Error: -description and -category are required")
	}

	st, ctx := openStore(*configPath, log)
	defer st.Close()
	user := lookupUser(ctx, st, *first, *last, log)

	// Corrections only touch the store; no classifier needed.
	gateway := classify.NewGateway(st, nil, classify.Rules{})

	var newPlace *string
	if *place != "" {
		newPlace = place
	}
	if err := gateway.Correct(ctx, user.ID, *description, *category, newPlace); err != nil {
		log.Fatal().Err(err).Msg("Correction failed")
	}

	fmt.Printf("Updated label for %q; every transaction with this description now reflects it.\n", *description)
}

func runComment(log zerolog.Logger) {
	fs := flag.NewFlagSet("comment", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	first := fs.String("first", "", "User first name")
	last := fs.String("last", "", "User last name")
	title := fs.String("title", "", "Comment title")
	body := fs.String("body", "", "Comment body")
	dateStr := fs.String("date", "", "Comment date YYYY-MM-DD (defaults to today)")
	fs.Parse(os.Args[2:])

	if *body == "" {
		log.Fatal().Msg("Error: -body is required")
	}

	st, ctx := openStore(*configPath, log)
	defer st.Close()
	user := lookupUser(ctx, st, *first, *last, log)

	date := time.Now()
	if *dateStr != "" {
		var err error
		date, err = time.Parse("2006-01-02", *dateStr)
		if err != nil {
			log.Fatal().Err(err).Msg("Error: invalid date format, expected YYYY-MM-DD")
		}
	}

	if _, err := st.CreateComment(ctx, user.ID, *title, date, *body); err != nil {
		log.Fatal().Err(err).Msg("Failed to save comment")
	}
	fmt.Println("Comment saved.")
}

func runComments(log zerolog.Logger) {
	fs := flag.NewFlagSet("comments", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	first := fs.String("first", "", "User first name")
	last := fs.String("last", "", "User last name")
	fs.Parse(os.Args[2:])

	st, ctx := openStore(*configPath, log)
	defer st.Close()
	user := lookupUser(ctx, st, *first, *last, log)

	comments, err := st.ListComments(ctx, user.ID)
	if err != nil {
		log.Fatal().Err(err).Msg("Query failed")
	}
	for _, c := range comments {
		fmt.Printf("%s  %s\n    %s\n", c.Date.Format("2006-01-02"), c.Title, c.Body)
	}
	fmt.Printf("%d comment(s)\n", len(comments))
}

func runDeleteUser(log zerolog.Logger) {
	fs := flag.NewFlagSet("delete-user", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	first := fs.String("first", "", "User first name")
	last := fs.String("last", "", "User last name")
	confirm := fs.Bool("yes", false, "Confirm deletion")
	fs.Parse(os.Args[2:])

	if !*confirm {
		log.Fatal().Msg("Error: pass -yes to confirm; this removes the user and all their statements, transactions, labels and comments")
	}

	st, ctx := openStore(*configPath, log)
	defer st.Close()
	user := lookupUser(ctx, st, *first, *last, log)

	if err := st.DeleteUser(ctx, user.ID); err != nil {
		log.Fatal().Err(err).Msg("Deletion failed")
	}
	fmt.Printf("Deleted user %s %s and all their data.\n", user.FirstName, user.LastName)
}
