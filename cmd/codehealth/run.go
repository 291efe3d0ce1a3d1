package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/agent"
	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/cooldown"
	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/coverage"
	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/executor"
	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/monitor"
	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/storage"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the autonomous monitoring loop",
	Long: `Start the monitor daemon. Every interval it re-reads the inventory
report, analyzes every file, and dispatches remediation requests for
files that clear both auto-trigger gates. Ctrl+C stops the loop after
any in-flight cycle finishes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		if store != nil {
			defer store.Close()
		}

		sink, err := agent.NewClient(&agent.Config{})
		if err != nil {
			return fmt.Errorf("failed to create agent client: %w", err)
		}

		cooldowns := cooldown.NewStore(time.Duration(cfg.CooldownHours) * time.Hour)

		monitorID := fmt.Sprintf("codehealth-%d", os.Getpid())

		eventStore := eventStoreOrNil(store)
		verifier := coverage.NewVerifier(sink, nil, eventStore, monitorID)
		verifier.SetThresholds(cfg.CoverageTarget, cfg.CoverageGoal)

		exec := executor.New(sink, cooldowns, verifier, eventStore, monitorID)
		exec.SetSilent(cfg.Silent)

		m, err := monitor.New(&monitor.Config{
			Analyzer: newAnalyzer(store, monitorID),
			Executor: exec,
			Store:    eventStore,
			Interval: time.Duration(cfg.IntervalSeconds) * time.Second,
			ID:       monitorID,
		})
		if err != nil {
			return err
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		fmt.Printf("\n%s\n", cyan("=== Code Health Monitor ==="))
		fmt.Printf("%s\n\n", cfg)

		if err := m.Start(ctx); err != nil {
			return err
		}

		// Daily event cleanup alongside the monitor.
		cleanupDone := make(chan struct{})
		if store != nil {
			go runCleanup(ctx, store, cleanupDone)
		} else {
			close(cleanupDone)
		}

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		fmt.Println("\nShutting down...")
		m.Stop()
		cancel()
		<-cleanupDone
		return nil
	},
}

// runCleanup deletes expired events once a day until ctx is cancelled.
func runCleanup(ctx context.Context, store storage.Store, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := store.CleanupEventsByAge(ctx, cfg.Storage.RetentionDays)
			if err != nil {
				fmt.Printf("Cleanup: failed to delete expired events: %v\n", err)
				continue
			}
			if deleted > 0 {
				fmt.Printf("Cleanup: deleted %d expired events\n", deleted)
			}
		}
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
}
