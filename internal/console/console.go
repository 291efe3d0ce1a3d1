// Package console is the interactive shell for poking at the health loop:
// run an analysis, inspect events, check cooldown state.
package console

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/cooldown"
	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/events"
	"github.com/lindsaysblock/datadetective-lblock-sub002/internal/health"
)

// Console represents the interactive shell.
type Console struct {
	analyzer  *health.Analyzer
	cooldowns *cooldown.Store
	store     events.EventStore // optional
	rl        *readline.Instance
	ctx       context.Context
	commands  map[string]CommandHandler
}

// CommandHandler handles a specific command.
type CommandHandler func(args []string) error

// Config holds console configuration.
type Config struct {
	Analyzer  *health.Analyzer
	Cooldowns *cooldown.Store
	Store     events.EventStore // optional
}

// New creates a console instance.
func New(cfg *Config) (*Console, error) {
	if cfg.Analyzer == nil {
		return nil, fmt.Errorf("analyzer is required")
	}
	if cfg.Cooldowns == nil {
		return nil, fmt.Errorf("cooldown store is required")
	}

	c := &Console{
		analyzer:  cfg.Analyzer,
		cooldowns: cfg.Cooldowns,
		store:     cfg.Store,
		commands:  make(map[string]CommandHandler),
	}
	c.registerCommands()
	return c, nil
}

// Run starts the console loop.
func (c *Console) Run(ctx context.Context) error {
	c.ctx = ctx

	cyan := color.New(color.FgCyan).SprintFunc()
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            cyan("codehealth> "),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()
	c.rl = rl

	c.printWelcome()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			} else if err == io.EOF {
				fmt.Println("\nGoodbye!")
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := c.processInput(line); err != nil {
			if err == io.EOF {
				return nil
			}
			red := color.New(color.FgRed).SprintFunc()
			fmt.Printf("%s %v\n", red("Error:"), err)
		}
	}
}

func (c *Console) processInput(line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}

	if handler, ok := c.commands[parts[0]]; ok {
		return handler(parts[1:])
	}

	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Printf("%s Unknown command %q. Use 'help' for available commands.\n", yellow("Note:"), parts[0])
	return nil
}

func (c *Console) registerCommands() {
	c.commands["help"] = c.cmdHelp
	c.commands["?"] = c.cmdHelp
	c.commands["check"] = c.cmdCheck
	c.commands["events"] = c.cmdEvents
	c.commands["cooldowns"] = c.cmdCooldowns
	c.commands["exit"] = c.cmdExit
	c.commands["quit"] = c.cmdExit
}

func (c *Console) printWelcome() {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Printf("\n%s\n", cyan("Code Health Console"))
	fmt.Println("Type 'help' for available commands, 'exit' to quit")
	fmt.Println()
}

func (c *Console) cmdHelp(args []string) error {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Printf("\n%s\n", cyan("Available Commands:"))
	fmt.Println("  check            Run a one-shot analysis over the inventory")
	fmt.Println("  events [n]       Show the n most recent events (default 20)")
	fmt.Println("  cooldowns        Show cooldown state for files remediated in this session")
	fmt.Println("  help, ?          Show this help")
	fmt.Println("  exit, quit       Leave the console")
	fmt.Println()
	return nil
}

func (c *Console) cmdExit(args []string) error {
	fmt.Println("Goodbye!")
	return io.EOF
}

func (c *Console) cmdCheck(args []string) error {
	suggestions, err := c.analyzer.Analyze(c.ctx)
	if err != nil {
		return err
	}

	if len(suggestions) == 0 {
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s No files in the inventory\n", green("✓"))
		return nil
	}

	for _, s := range suggestions {
		fmt.Println(FormatSuggestion(s))
	}
	return nil
}

func (c *Console) cmdEvents(args []string) error {
	if c.store == nil {
		return fmt.Errorf("no event store configured")
	}

	limit := 20
	if len(args) > 0 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil || parsed < 1 {
			return fmt.Errorf("invalid limit %q", args[0])
		}
		limit = parsed
	}

	recent, err := c.store.GetRecentEvents(c.ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to fetch events: %w", err)
	}
	if len(recent) == 0 {
		fmt.Println("No events recorded yet")
		return nil
	}

	// Oldest first reads naturally in a terminal.
	for i := len(recent) - 1; i >= 0; i-- {
		fmt.Println(FormatEvent(recent[i]))
	}
	return nil
}

func (c *Console) cmdCooldowns(args []string) error {
	history := c.cooldowns.History()
	if len(history) == 0 {
		fmt.Println("No files have been remediated in this session")
		return nil
	}

	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	for file, at := range history {
		state := green("expired")
		if c.cooldowns.Active(file) {
			state = yellow("active")
		}
		fmt.Printf("  %s  %s  last remediated %s\n", state, file, at.Format(time.RFC3339))
	}
	return nil
}
