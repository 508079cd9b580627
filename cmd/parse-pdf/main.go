// parse-pdf is a debugging tool: it runs a statement through extraction
// and parsing without touching the database or the classifier, and prints
// what the pipeline would ingest.
package main

import (
	"flag"
	"fmt"

	"finsight/internal/config"
	"finsight/internal/extract"
	"finsight/internal/logger"
	"finsight/internal/parse"
	"finsight/internal/store"
)

func main() {
	var (
		configPath string
		filePath   string
		kind       string
		showText   bool
	)

	flag.StringVar(&configPath, "config", "", "Path to config file (optional)")
	flag.StringVar(&filePath, "file", "", "Path to local PDF file (required)")
	flag.StringVar(&kind, "kind", "credit_card", "Statement kind: credit_card or bank_account")
	flag.BoolVar(&showText, "text", false, "Also print the raw extracted text")
	flag.Parse()

	log := logger.New()

	if filePath == "" {
		log.Fatal().Msg("Usage: parse-pdf -file statement.pdf [-kind KIND] [-text]")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	res, err := extract.File(filePath, extract.Config{CurrencySymbols: cfg.Pipeline.CurrencySymbols})
	if err != nil {
		log.Fatal().Err(err).Msg("Extraction failed")
	}

	fmt.Printf("Pages: %d\n", res.PageCount)
	if res.Currency != nil {
		fmt.Printf("Currency: %s\n", *res.Currency)
	}
	if res.AccountLast4 != nil {
		fmt.Printf("Account: xxxx %s\n", *res.AccountLast4)
	}

	if showText {
		fmt.Println("--- raw text ---")
		fmt.Println(res.RawText)
		fmt.Println("--- end raw text ---")
	}

	drafts, err := parse.Statement(res.RawText, store.StatementKind(kind), parse.Config{PaymentPhrases: cfg.Pipeline.PaymentPhrases})
	if err != nil {
		log.Fatal().Err(err).Msg("Parsing failed")
	}

	fmt.Printf("Parsed %d transaction(s):\n", len(drafts))
	for _, d := range drafts {
		fmt.Printf("  %s  %10.2f  %s\n", d.Date.Format("2006-01-02"), d.Amount, d.Description)
	}
}
