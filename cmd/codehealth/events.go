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

	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/console"
	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/events"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recent health events",
	Long: `Display events recorded by the monitoring loop: suggestions,
remediation dispatches, cooldown suppressions, and coverage findings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		follow, _ := cmd.Flags().GetBool("follow")
		file, _ := cmd.Flags().GetString("file")
		limit, _ := cmd.Flags().GetInt("limit")

		ctx := context.Background()

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		if store == nil {
			return fmt.Errorf("no event store configured (storage.backend is \"none\")")
		}
		defer store.Close()

		if follow {
			return followEvents(ctx, store, file, limit)
		}
		return showEvents(ctx, store, file, limit)
	},
}

func showEvents(ctx context.Context, store events.EventStore, file string, limit int) error {
	recent, err := store.GetEvents(ctx, events.EventFilter{File: file, Limit: limit})
	if err != nil {
		return fmt.Errorf("failed to fetch events: %w", err)
	}

	if len(recent) == 0 {
		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Printf("%s No events found\n", yellow("~"))
		return nil
	}

	for i := len(recent) - 1; i >= 0; i-- {
		fmt.Println(console.FormatEvent(recent[i]))
	}
	return nil
}

func followEvents(ctx context.Context, store events.EventStore, file string, limit int) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Printf("%s Following events (Ctrl+C to stop)...\n\n", cyan(">"))

	recent, err := store.GetEvents(ctx, events.EventFilter{File: file, Limit: limit})
	if err != nil {
		return fmt.Errorf("failed to fetch events: %w", err)
	}
	for i := len(recent) - 1; i >= 0; i-- {
		fmt.Println(console.FormatEvent(recent[i]))
	}

	lastSeen := time.Now()
	if len(recent) > 0 {
		lastSeen = recent[0].Timestamp
	}

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-sigChan:
			fmt.Println("\nStopped")
			return nil
		case <-ticker.C:
			fresh, err := store.GetEvents(ctx, events.EventFilter{File: file, AfterTime: lastSeen})
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error fetching events: %v\n", err)
				continue
			}
			for i := len(fresh) - 1; i >= 0; i-- {
				fmt.Println(console.FormatEvent(fresh[i]))
			}
			if len(fresh) > 0 {
				lastSeen = fresh[0].Timestamp
			}
		}
	}
}

func init() {
	eventsCmd.Flags().BoolP("follow", "f", false, "Follow mode - poll for new events (Ctrl+C to stop)")
	eventsCmd.Flags().String("file", "", "Filter events by source file")
	eventsCmd.Flags().IntP("limit", "n", 20, "Number of recent events to show")
	rootCmd.AddCommand(eventsCmd)
}
