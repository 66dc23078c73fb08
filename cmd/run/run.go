// Package run implements the full statement ingestion pipeline command.
package run

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"finledger/cmd/root"
	"finledger/internal/categorizer"
	"finledger/internal/config"
	"finledger/internal/logging"
	"finledger/internal/models"
	"finledger/internal/n26parser"
	"finledger/internal/revolutparser"
	"finledger/internal/scanner"
	"finledger/internal/sebparser"
	"finledger/internal/sheets"
	"finledger/internal/store"
)

// Cmd represents the run command.
var Cmd = &cobra.Command{
	Use:   "run",
	Short: "Ingest, categorize, store and publish new statement transactions",
	RunE:  runPipeline,
}

var skipSheets bool

func init() {
	Cmd.Flags().BoolVar(&skipSheets, "skip-sheets", false, "Skip publishing the ledger to Google Sheets")
}

// statementParser is the common surface of the per-bank parsers.
type statementParser interface {
	ParseFile(filePath string) ([]models.Transaction, error)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := root.Cfg
	log := root.Log

	db, err := store.Open(cfg.Database.Path, log)
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	if err := db.Initialize(cfg.Categories, cfg.Accounts); err != nil {
		return err
	}

	statements, err := readStatements(cfg.Input.Directory, db, log)
	if err != nil {
		return err
	}

	cat, cleanup, err := buildCategorizer(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	for bank, txs := range statements {
		txs = cat.CategorizeTransactions(ctx, txs)
		if err := db.LoadTransactions(string(bank), txs); err != nil {
			return err
		}
	}

	if skipSheets || !cfg.Sheets.Enabled {
		log.Info("Sheets publishing disabled, done")
		return nil
	}

	ledger, err := db.AllTransactions()
	if err != nil {
		return err
	}

	publisher, err := sheets.NewPublisher(ctx,
		cfg.Sheets.CredentialsFile, cfg.Sheets.SpreadsheetID, cfg.Sheets.TabName, log)
	if err != nil {
		return err
	}
	return publisher.Publish(ctx, ledger)
}

// readStatements scans the input directory, parses every recognized file and
// filters out transactions already present in the store.
func readStatements(inputDir string, db *store.Store, log logging.Logger) (map[scanner.BankType][]models.Transaction, error) {
	banksFiles, err := scanner.New(log).ScanDirectory(inputDir)
	if err != nil {
		return nil, fmt.Errorf("scanning input directory: %w", err)
	}

	parsers := map[scanner.BankType]statementParser{
		scanner.BankN26:     n26parser.New(log),
		scanner.BankSEB:     sebparser.New(log),
		scanner.BankRevolut: revolutparser.New(log),
	}

	statements := make(map[scanner.BankType][]models.Transaction)
	for bank, files := range banksFiles {
		parser := parsers[bank]
		var combined []models.Transaction
		for _, file := range files {
			txs, err := parser.ParseFile(file)
			if err != nil {
				log.WithError(err).WithFields(
					logging.Field{Key: logging.FieldBank, Value: string(bank)},
					logging.Field{Key: logging.FieldFile, Value: file},
				).Error("Failed to parse statement file")
				continue
			}
			combined = append(combined, txs...)
		}

		fresh, err := db.FilterNew(combined)
		if err != nil {
			return nil, err
		}
		log.WithFields(
			logging.Field{Key: logging.FieldBank, Value: string(bank)},
			logging.Field{Key: logging.FieldCount, Value: len(fresh)},
		).Info("New transactions found")
		statements[bank] = fresh
	}

	return statements, nil
}

func buildCategorizer(ctx context.Context, cfg *config.Config, log logging.Logger) (*categorizer.Categorizer, func(), error) {
	income, expense := root.Definitions(cfg.Categories)
	registry := categorizer.NewRegistry(income, expense, log)

	embedder, err := categorizer.NewGeminiEmbedder(ctx, cfg.Embedding.APIKey, cfg.Embedding.Model, log)
	if err != nil {
		return nil, nil, err
	}

	cat, err := categorizer.New(ctx, registry, embedder, log,
		categorizer.WithConfidenceThreshold(cfg.Categorization.ConfidenceThreshold),
		categorizer.WithFuzzyThreshold(cfg.Categorization.FuzzyThreshold),
	)
	if err != nil {
		_ = embedder.Close()
		return nil, nil, err
	}

	cleanup := func() {
		_ = embedder.Close()
	}
	return cat, cleanup, nil
}
