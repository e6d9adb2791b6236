package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"grocery-planner/internal/app"
	"grocery-planner/internal/config"
	"grocery-planner/internal/logging"
)

var (
	// Global flags
	dbPath     string
	seed       uint64
	offline    bool
	jsonOutput bool
	userID     string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "grocery-planner",
	Short: "Search groceries, build a cart, and get recipes, nutrition and nearby stores",
	Long: `grocery-planner resolves product searches against the local catalog, an
external product database and a synthesizer, keeps a cart per user, and
derives recipe ideas, nutrition totals and store rankings from it.

Settings come from the environment (or a .env file); see DATABASE_PATH,
LOOKUP_PROVIDER, LOOKUP_URL, LOOKUP_TIMEOUT and RANDOM_SEED.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		var err error
		cfg, err = config.NewFromEnv()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyFlags(cmd, cfg)

		logger, err = logging.New(cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (overrides DATABASE_PATH)")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "random seed for reproducible output (overrides RANDOM_SEED)")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "never call the external product database")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of text")
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", "cli", "cart owner")

	rootCmd.AddCommand(searchCmd, catalogCmd, cartCmd, recipesCmd, nutritionCmd, storesCmd, importCmd, metricsCmd)
}

func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("db") {
		c.DatabasePath = dbPath
	}
	if flags.Changed("seed") {
		c.RandomSeed = seed
	}
	if offline {
		c.LookupProvider = config.ProviderNone
	}
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// openApp builds the engine for one command run.
func openApp(cmd *cobra.Command) (*app.App, error) {
	a, err := app.New(contextOf(cmd), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize app: %w", err)
	}
	return a, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
