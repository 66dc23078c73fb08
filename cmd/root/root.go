// Package root contains the root command and shared CLI state.
package root

import (
	"github.com/spf13/cobra"

	"finledger/internal/categorizer"
	"finledger/internal/config"
	"finledger/internal/logging"
	"finledger/internal/models"
)

var (
	// Log is the shared logger instance for commands, configured in the
	// persistent pre-run.
	Log = logging.Default()

	// Cfg is the loaded application configuration.
	Cfg *config.Config

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "finledger",
		Short: "Ingest bank statement exports, categorize transactions and publish the ledger.",
		Long: `finledger scans a directory of bank statement CSV exports (N26, SEB,
Revolut), deduplicates and categorizes the transactions with a hybrid
keyword+semantic matcher, stores them in SQLite and republishes the
consolidated ledger to a Google Sheet.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			Cfg = cfg
			Log = logging.New(cfg.Log.Level, cfg.Log.Format)
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Use --help to see available commands")
		},
	}
)

// Definitions converts configured category groups into registry definitions.
func Definitions(groups config.CategoryGroups) (income, expense map[string]categorizer.Definition) {
	return toDefinitions(groups.Income), toDefinitions(groups.Expense)
}

func toDefinitions(defs map[string]config.CategoryDef) map[string]categorizer.Definition {
	out := make(map[string]categorizer.Definition, len(defs))
	for name, def := range defs {
		out[name] = categorizer.Definition{
			Description: def.Description,
			Keywords:    def.Keywords,
			Type:        models.CategoryType(def.CategoryType),
		}
	}
	return out
}
