package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/console"
	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/cooldown"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Start the interactive console",
	Long: `Start an interactive shell for inspecting the health loop:
run one-shot analyses, browse recorded events, and inspect cooldown state.

Cooldown state is in-memory and scoped to this console process; a daemon
started with 'run' keeps its own store, so 'cooldowns' here only shows
files remediated from this session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		if store != nil {
			defer store.Close()
		}

		c, err := console.New(&console.Config{
			Analyzer:  newAnalyzer(store, ""),
			Cooldowns: cooldown.NewStore(time.Duration(cfg.CooldownHours) * time.Hour),
			Store:     eventStoreOrNil(store),
		})
		if err != nil {
			return fmt.Errorf("failed to create console: %w", err)
		}

		if err := c.Run(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}
