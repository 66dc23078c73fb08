// Package categorize implements ad-hoc categorization of free-text
// transaction descriptions from the command line.
package categorize

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"finledger/cmd/root"
	"finledger/internal/categorizer"
	"finledger/internal/config"
)

// Cmd represents the categorize command.
var Cmd = &cobra.Command{
	Use:   "categorize [description ...]",
	Short: "Categorize free-text transaction descriptions",
	Long: `Categorize one or more transaction descriptions using the configured
category catalog: keyword matching first, semantic matching for the rest.
Descriptions are taken from the arguments, or one per line from --input.`,
	RunE: categorizeFunc,
}

var (
	inputFile      string
	categoriesFile string
)

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "File with one description per line")
	Cmd.Flags().StringVarP(&categoriesFile, "categories", "c", "", "Standalone categories YAML file (defaults to the main config)")
}

func categorizeFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := root.Cfg
	log := root.Log

	texts, err := collectTexts(args)
	if err != nil {
		return err
	}
	if len(texts) == 0 {
		return fmt.Errorf("nothing to categorize: pass descriptions as arguments or via --input")
	}

	groups := cfg.Categories
	if categoriesFile != "" {
		groups, err = config.LoadCategoriesFile(categoriesFile)
		if err != nil {
			return err
		}
	}

	income, expense := root.Definitions(groups)
	registry := categorizer.NewRegistry(income, expense, log)

	embedder, err := categorizer.NewGeminiEmbedder(ctx, cfg.Embedding.APIKey, cfg.Embedding.Model, log)
	if err != nil {
		return err
	}
	defer func() {
		_ = embedder.Close()
	}()

	cat, err := categorizer.New(ctx, registry, embedder, log,
		categorizer.WithConfidenceThreshold(cfg.Categorization.ConfidenceThreshold),
		categorizer.WithFuzzyThreshold(cfg.Categorization.FuzzyThreshold),
	)
	if err != nil {
		return err
	}

	categories := cat.CategorizeBatch(ctx, texts)
	for i, text := range texts {
		fmt.Printf("%s -> %s\n", text, categories[i])
	}
	return nil
}

func collectTexts(args []string) ([]string, error) {
	texts := append([]string{}, args...)
	if inputFile == "" {
		return texts, nil
	}

	file, err := os.Open(inputFile)
	if err != nil {
		return nil, fmt.Errorf("opening input file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	reader := bufio.NewScanner(file)
	for reader.Scan() {
		if line := reader.Text(); line != "" {
			texts = append(texts, line)
		}
	}
	return texts, reader.Err()
}
