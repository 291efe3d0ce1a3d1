// codehealth watches a codebase's file inventory and autonomously requests
// refactoring for files that drift past their health thresholds.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/config"
	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/events"
	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/health"
	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/inventory"
	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/storage"
)

var (
	configPath    string
	inventoryPath string
	cfg           *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "codehealth",
	Short: "Autonomous code health monitoring and remediation",
	Long: `codehealth analyzes a file inventory report, scores each file's
maintainability, and dispatches refactoring requests for files that
qualify for autonomous remediation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			cfg, err = config.LoadFromFile(configPath)
			if err != nil {
				return err
			}
		} else {
			cfg = config.DefaultConfig()
		}
		if err := cfg.LoadFromEnv(); err != nil {
			return err
		}
		if inventoryPath != "" {
			cfg.InventoryPath = inventoryPath
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVarP(&inventoryPath, "inventory", "i", "", "Path to the file inventory report (overrides config)")
}

// openStore opens the configured event store. A nil store means events go to
// the log only.
func openStore(ctx context.Context) (storage.Store, error) {
	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open event store: %w", err)
	}
	return store, nil
}

// newAnalyzer builds the analyzer over the configured inventory report.
func newAnalyzer(store storage.Store, monitorID string) *health.Analyzer {
	source := inventory.NewFileSource(cfg.InventoryPath)
	return health.NewAnalyzer(source, eventStoreOrNil(store), monitorID)
}

// eventStoreOrNil unwraps a possibly-nil Store into an events.EventStore
// without producing a typed-nil interface.
func eventStoreOrNil(store storage.Store) events.EventStore {
	if store == nil {
		return nil
	}
	return store
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
