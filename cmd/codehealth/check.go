package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/console"
	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/health"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a one-shot analysis over the file inventory",
	Long: `Analyze the inventory report and print a suggestion for every file,
worst first. Nothing is dispatched; this is a read-only view of what the
monitor would act on.`,
	Run: func(cmd *cobra.Command, args []string) {
		autoOnly, _ := cmd.Flags().GetBool("auto-only")
		ctx := context.Background()

		analyzer := newAnalyzer(nil, "")
		suggestions, err := analyzer.Analyze(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		fmt.Printf("\n%s\n\n", cyan("=== Code Health Report ==="))

		shown := 0
		autoCount := 0
		for _, s := range suggestions {
			if s.AutoRefactor {
				autoCount++
			}
			if autoOnly && !s.AutoRefactor {
				continue
			}
			fmt.Println(console.FormatSuggestion(s))
			fmt.Println()
			shown++
		}

		if shown == 0 {
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Printf("%s Nothing to show\n\n", green("✓"))
		}

		fmt.Printf("%d files analyzed, %d flagged for autonomous remediation\n",
			len(suggestions), autoCount)
		printSummary(suggestions)
	},
}

func printSummary(suggestions []health.RefactoringSuggestion) {
	counts := map[health.Priority]int{}
	for _, s := range suggestions {
		counts[s.Priority]++
	}
	fmt.Printf("priority breakdown: critical=%d high=%d medium=%d low=%d\n",
		counts[health.PriorityCritical], counts[health.PriorityHigh],
		counts[health.PriorityMedium], counts[health.PriorityLow])
}

func init() {
	checkCmd.Flags().Bool("auto-only", false, "Only show suggestions that qualify for autonomous remediation")
	rootCmd.AddCommand(checkCmd)
}
