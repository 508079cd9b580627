package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"finsight/internal/classify"
	"finsight/internal/config"
	"finsight/internal/extract"
	"finsight/internal/ingest"
	"finsight/internal/logger"
	"finsight/internal/parse"
	"finsight/internal/source"
	"finsight/internal/store"
)

func main() {
	var (
		configPath string
		firstName  string
		lastName   string
		kind       string
	)

	flag.StringVar(&configPath, "config", "", "Path to config file (optional)")
	flag.StringVar(&firstName, "first", "", "User first name (required)")
	flag.StringVar(&lastName, "last", "", "User last name (required)")
	flag.StringVar(&kind, "kind", "credit_card", "Statement kind: credit_card or bank_account")
	flag.Parse()

	log := logger.New()

	if firstName == "" || lastName == "" || flag.NArg() == 0 {
		log.Fatal().Msg("Usage: ingest -first FIRST -last LAST [-kind KIND] statement.pdf [gs://bucket/more.pdf ...]")
	}

	statementKind := store.StatementKind(kind)
	if statementKind != store.KindCreditCard && statementKind != store.KindBankAccount {
		log.Fatal().Str("kind", kind).Msg("kind must be credit_card or bank_account")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
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

	classifier, err := classify.NewGeminiClassifier(ctx, cfg.Classifier.Model)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create classifier")
	}

	resolver := newResolver(ctx, flag.Args(), log)
	defer resolver.Close()

	uploads := make([]ingest.Upload, 0, flag.NArg())
	for _, ref := range flag.Args() {
		doc, err := resolver.Resolve(ctx, ref)
		if err != nil {
			log.Fatal().Err(err).Str("ref", ref).Msg("Failed to resolve document")
		}
		uploads = append(uploads, ingest.Upload{
			Kind:       statementKind,
			SourceName: doc.Name,
			Data:       doc.Data,
		})
	}

	gateway := classify.NewGateway(st, classifier, classify.Rules{PaymentPhrases: cfg.Pipeline.PaymentPhrases})
	ingestor := ingest.New(st, gateway,
		extract.Config{CurrencySymbols: cfg.Pipeline.CurrencySymbols},
		parse.Config{PaymentPhrases: cfg.Pipeline.PaymentPhrases})

	report, err := ingestor.IngestBatch(ctx, firstName, lastName, uploads)
	if err != nil {
		log.Fatal().Err(err).Msg("Ingestion failed")
	}

	fmt.Printf("Ingested %d statement(s), %d transaction(s); %d duplicate(s) skipped.\n",
		report.Statements, report.Transactions, report.Duplicates)
}

// newResolver only pays for a storage client when a gs:// reference is in
// the argument list.
func newResolver(ctx context.Context, refs []string, log zerolog.Logger) *source.Resolver {
	needsGCS := false
	for _, ref := range refs {
		if strings.HasPrefix(ref, "gs://") {
			needsGCS = true
			break
		}
	}
	if !needsGCS {
		return source.NewLocalResolver()
	}

	r, err := source.NewResolver(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage client")
	}
	return r
}
