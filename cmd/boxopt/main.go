package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vsinha/boxopt/pkg/infrastructure/config"
	"github.com/vsinha/boxopt/pkg/infrastructure/logging"
	"github.com/vsinha/boxopt/pkg/interfaces/cli/commands"
)

var (
	// Global flags
	configFile string
	logLevel   string
	verbose    bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "boxopt",
	Short: "Shipment packing optimizer",
	Long: `boxopt redistributes the boxes of a shipment across two or three adjustable lines
so that total duty is as low as possible while every configured customs condition
still holds.

SCENARIO DIRECTORY STRUCTURE:
    scenario_name/
    ├── products.csv    # Product catalog
    ├── lines.csv       # Shipment lines
    └── shipment.yaml   # Mode, target boxes, weights, adjustable lines and ranges

CSV FILE FORMATS:

products.csv:
    name,unit_price,pieces_per_box,duty_rate,surcharge_rates,fixed_box_weight,extra_fee_unit,extra_fee_rate,clothing,weight_bound
    COTTON_TEE,2.50,40,0.165,0.075,,,,true,false

lines.csv:
    line_id,product,box_count,pieces_per_box,unit_price
    TEE,COTTON_TEE,40,,`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		opts := logging.Options{Level: logLevel}
		if cfg, err := config.Load(configFile); err == nil {
			if opts.Level == "" {
				opts.Level = cfg.Logging.Level
			}
			opts.Development = cfg.Logging.Development
		}
		if verbose && opts.Level == "" {
			opts.Level = "debug"
		}

		var err error
		logger, err = logging.NewLogger(opts)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func newOptimizeCmd() *cobra.Command {
	var cfg commands.OptimizeConfig

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Search for the lowest-duty box distributions",
		Long: `Enumerates every distribution of the remaining boxes across the adjustable lines,
keeps the cheapest ones that satisfy all conditions, and writes the best back into the
shipment. With --rounds N each further round returns the next-best distributions.

Examples:
    boxopt optimize --scenario scenarios/apparel_sea
    boxopt optimize --scenario scenarios/apparel_sea --rounds 3 --workers 4
    boxopt optimize --scenario scenarios/apparel_sea --format json --output results/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.ConfigFile = configFile
			cfg.Verbose = verbose
			return commands.NewOptimizeCommand(cfg).Execute(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&cfg.ScenarioDir, "scenario", "", "Path to scenario directory (required)")
	cmd.Flags().IntVar(&cfg.Rounds, "rounds", 0, "Number of consecutive searches (default: config)")
	cmd.Flags().IntVar(&cfg.Workers, "workers", 0, "Parallel search workers (default: config)")
	cmd.Flags().StringVar(&cfg.Format, "format", "text", "Output format: text, json, csv")
	cmd.Flags().StringVar(&cfg.OutputDir, "output", "", "Output directory for json and csv results")
	_ = cmd.MarkFlagRequired("scenario")
	return cmd
}

func newCheckCmd() *cobra.Command {
	var cfg commands.CheckConfig

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Evaluate a shipment as it stands",
		Long: `Computes duty and metrics for the current box counts, evaluates the configured
conditions under the strict search policy and the manual override policy, and checks
pieces per box for weight-bound products.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.ConfigFile = configFile
			cfg.Verbose = verbose
			return commands.NewCheckCommand(cfg).Execute(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&cfg.ScenarioDir, "scenario", "", "Path to scenario directory (required)")
	cmd.Flags().StringVar(&cfg.Format, "format", "text", "Output format: text, json, csv")
	cmd.Flags().StringVar(&cfg.OutputDir, "output", "", "Output directory for json and csv results")
	_ = cmd.MarkFlagRequired("scenario")
	return cmd
}

func newSessionCmd() *cobra.Command {
	var cfg commands.SessionConfig

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Start an interactive optimization session",
		Long: `Starts an interactive session. Each 'next' returns the next-best distributions
not shown before; 'range' narrows an adjustable line and 'apply' writes a solution back
into the shipment.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.ConfigFile = configFile
			return commands.NewSessionCommand(cfg).Execute(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&cfg.ScenarioDir, "scenario", "", "Path to scenario directory (required)")
	cmd.Flags().IntVar(&cfg.Workers, "workers", 0, "Parallel search workers (default: config)")
	_ = cmd.MarkFlagRequired("scenario")
	return cmd
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultFileName, "Path to config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (or set LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(newOptimizeCmd(), newCheckCmd(), newSessionCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
