package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/vsinha/boxopt/pkg/application/dto"
	"github.com/vsinha/boxopt/pkg/application/services/search"
	"github.com/vsinha/boxopt/pkg/domain/entities"
	"github.com/vsinha/boxopt/pkg/infrastructure/events"
	"github.com/vsinha/boxopt/pkg/infrastructure/logging"
	"github.com/vsinha/boxopt/pkg/interfaces/cli/output"
)

// SessionConfig holds configuration for the interactive session command
type SessionConfig struct {
	ScenarioDir string
	ConfigFile  string
	Workers     int
	Input       io.Reader
	Writer      io.Writer
}

// SessionCommand runs an interactive session where each search returns the next-best
// distributions not shown before
type SessionCommand struct {
	config   SessionConfig
	out      io.Writer
	logger   *zap.Logger
	env      *environment
	store    *events.InMemoryEventStore
	searcher *search.EventDrivenSearcher
	request  search.Request
	history  search.History
	last     *search.Result
	round    int
}

// NewSessionCommand creates a new session command with the given configuration
func NewSessionCommand(config SessionConfig) *SessionCommand {
	if config.Input == nil {
		config.Input = os.Stdin
	}
	if config.Writer == nil {
		config.Writer = os.Stdout
	}
	return &SessionCommand{
		config: config,
		out:    config.Writer,
	}
}

// Execute loads the scenario and reads commands until quit or end of input
func (c *SessionCommand) Execute(ctx context.Context) error {
	c.logger = logging.FromContext(ctx)

	env, err := loadEnvironment(c.config.ScenarioDir, c.config.ConfigFile, c.logger)
	if err != nil {
		return err
	}
	c.env = env
	c.store = events.NewInMemoryEventStore(c.logger)
	c.searcher = search.NewEventDrivenSearcher(env.newSearcher(c.config.Workers, c.logger), c.store, c.logger)
	c.request = env.request()
	c.history = search.NewHistory()

	fmt.Fprintln(c.out, "=== Packing Optimization Session ===")
	fmt.Fprintf(c.out, "Session: %s\n", c.history.SessionID())
	fmt.Fprintln(c.out, "Type 'help' for available commands")
	fmt.Fprintln(c.out)

	scanner := bufio.NewScanner(c.config.Input)
	for {
		fmt.Fprint(c.out, "boxopt> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		quit, err := c.processCommand(ctx, line)
		if err != nil {
			fmt.Fprintf(c.out, "Error: %v\n", err)
		}
		if quit {
			break
		}
		fmt.Fprintln(c.out)
	}

	c.store.Flush()
	return scanner.Err()
}

func (c *SessionCommand) processCommand(ctx context.Context, line string) (bool, error) {
	parts := strings.Fields(line)
	command := parts[0]
	args := parts[1:]

	switch command {
	case "help", "h":
		c.printInteractiveHelp()
	case "next", "n":
		return false, c.handleNext(ctx)
	case "reset":
		c.history = c.history.Reset()
		fmt.Fprintln(c.out, "History cleared")
	case "range":
		return false, c.handleRange(args)
	case "apply":
		return false, c.handleApply(args)
	case "status":
		c.handleStatus()
	case "events":
		return false, c.handleShowEvents(args)
	case "quit", "q", "exit":
		fmt.Fprintln(c.out, "Goodbye!")
		return true, nil
	default:
		return false, fmt.Errorf("unknown command: %s (type 'help' for available commands)", command)
	}

	return false, nil
}

func (c *SessionCommand) handleNext(ctx context.Context) error {
	result, err := c.searcher.Search(ctx, c.request, c.history)
	if err != nil {
		if errors.Is(err, search.ErrNoFeasibleSolution) {
			fmt.Fprintln(c.out, "No unseen feasible distribution left; use 'reset' or 'range' to continue")
			return nil
		}
		return err
	}

	c.round++
	c.last = result
	c.history = result.History

	report := &dto.SearchReport{
		SessionID:      c.history.SessionID(),
		Scenario:       c.config.ScenarioDir,
		Mode:           c.request.Shipment.Mode.String(),
		TargetBoxes:    c.request.Shipment.TargetBoxes,
		AdjustableKeys: c.request.AdjustableKeys,
		Rounds:         []dto.RoundReport{dto.NewRoundReport(c.round, result)},
	}
	return output.GenerateSearchReport(report, output.Config{Format: "text", Writer: c.out})
}

func (c *SessionCommand) handleRange(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: range <line> <min|*> <max|*>")
	}

	key := entities.LineKey(args[0])
	adjustable := false
	for _, k := range c.request.AdjustableKeys {
		if k == key {
			adjustable = true
			break
		}
	}
	if !adjustable {
		return fmt.Errorf("line %s is not adjustable", key)
	}

	bound := func(s string) (*int, error) {
		if s == "*" {
			return nil, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid bound: %s", s)
		}
		return &n, nil
	}
	lo, err := bound(args[1])
	if err != nil {
		return err
	}
	hi, err := bound(args[2])
	if err != nil {
		return err
	}

	r := entities.AdjustmentRange{Min: lo, Max: hi}
	if err := r.Validate(); err != nil {
		return err
	}

	ranges := make(map[entities.LineKey]entities.AdjustmentRange, len(c.request.Ranges)+1)
	for k, v := range c.request.Ranges {
		ranges[k] = v
	}
	ranges[key] = r
	c.request.Ranges = ranges

	fmt.Fprintf(c.out, "Range for %s set to %s\n", key, r)
	return nil
}

func (c *SessionCommand) handleApply(args []string) error {
	if c.last == nil {
		return fmt.Errorf("no solutions yet; run 'next' first")
	}

	rank := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 || n > len(c.last.Solutions) {
			return fmt.Errorf("rank must be between 1 and %d", len(c.last.Solutions))
		}
		rank = n
	}

	solution := c.last.Solutions[rank-1]
	applied := c.request.Shipment.Clone()
	copy(applied.Lines, solution.Lines)
	c.request.Shipment = applied

	c.logger.Info("solution applied",
		zap.String("session_id", c.history.SessionID()),
		zap.String("solution_id", solution.ID),
		zap.Stringer("distribution", solution.Distribution))

	fmt.Fprintf(c.out, "Applied solution %s %s (total duty %s)\n",
		solution.ID, solution.Distribution, solution.TotalDuty().StringFixed(2))
	return nil
}

func (c *SessionCommand) handleStatus() {
	fmt.Fprintln(c.out, "=== Session Status ===")
	fmt.Fprintf(c.out, "Session: %s\n", c.history.SessionID())
	fmt.Fprintf(c.out, "Searches: %d\n", c.round)
	fmt.Fprintf(c.out, "Distributions seen: %d\n", c.history.Len())
	for _, key := range c.request.AdjustableKeys {
		line, _ := c.request.Shipment.Line(key)
		fmt.Fprintf(c.out, "  %s: %d boxes, range %s\n", key, line.BoxCount, c.request.Ranges[key])
	}
}

func (c *SessionCommand) handleShowEvents(args []string) error {
	limit := 10
	if len(args) > 0 {
		if l, err := strconv.Atoi(args[0]); err == nil {
			limit = l
		}
	}

	allEvents, err := c.store.ReadAllEvents(0)
	if err != nil {
		return fmt.Errorf("failed to read events: %w", err)
	}

	fmt.Fprintf(c.out, "=== Recent Events (last %d) ===\n", limit)
	start := len(allEvents) - limit
	if start < 0 {
		start = 0
	}

	for i := start; i < len(allEvents); i++ {
		event := allEvents[i]
		fmt.Fprintf(c.out, "[%s] %s -> %s\n",
			event.Timestamp().Format("15:04:05"),
			event.Type(),
			event.StreamID())
	}

	return nil
}

func (c *SessionCommand) printInteractiveHelp() {
	fmt.Fprintln(c.out, `Available commands:

  next
      Search for the next-best distributions not returned yet

  range <line> <min|*> <max|*>
      Bound an adjustable line; changing ranges starts a fresh history
      Example: range TEE 14 30

  apply [rank]
      Write a solution from the last search back into the shipment (default: 1)

  reset
      Forget every distribution returned so far

  status
      Show the session, history size and current ranges

  events [limit]
      Show recent events (default: 10)

  quit
      Leave the session`)
}
