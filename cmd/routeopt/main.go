package main

import (
	"context"
	"crew-route-service/internal/app"
	"crew-route-service/internal/config"
	"crew-route-service/internal/services"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configFile string
	seedFile   string
)

var rootCmd = &cobra.Command{
	Use:   "routeopt",
	Short: "Plan daily crew routes from the command line",
	Long:  `Run route optimization for one tenant and date, or debug address resolution, using the same wiring as the HTTP server.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found (using environment variables)")
		}
	},
}

var (
	optDate     string
	optTenant   string
	optStart    string
	optMaxDrive int
	optTarget   float64
	optPublish  bool
	optTimeout  time.Duration
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Optimize routes for one tenant and date",
	Long:  `Load teams and jobs (Postgres, or --seed JSON fixture), build routes, and print the result as JSON.`,
	RunE:  runOptimize,
}

var geocodeCmd = &cobra.Command{
	Use:   "geocode [address]",
	Short: "Resolve one address through the cache and provider cascade",
	Args:  cobra.ExactArgs(1),
	RunE:  runGeocode,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVarP(&seedFile, "seed", "s", "", "JSON fixture with teams and jobs (instead of Postgres)")

	optimizeCmd.Flags().StringVarP(&optDate, "date", "d", time.Now().Format(time.DateOnly), "Service date (YYYY-MM-DD)")
	optimizeCmd.Flags().StringVarP(&optTenant, "tenant", "t", "", "Tenant id")
	optimizeCmd.Flags().StringVar(&optStart, "start", "", "Day start time HH:MM (default from config)")
	optimizeCmd.Flags().IntVar(&optMaxDrive, "max-drive", 0, "Per-leg drive warning threshold in minutes")
	optimizeCmd.Flags().Float64Var(&optTarget, "target-revenue", 0, "Per-team daily revenue target; 0 disables the check")
	optimizeCmd.Flags().BoolVar(&optPublish, "publish", false, "Hand the result to the dispatch broker (AMQP_URL)")
	optimizeCmd.Flags().DurationVar(&optTimeout, "timeout", 10*time.Minute, "Abort the run after this long")
	_ = optimizeCmd.MarkFlagRequired("tenant")

	rootCmd.AddCommand(optimizeCmd, geocodeCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildEngine(ctx context.Context) (*app.Engine, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	return app.Build(ctx, cfg, seedFile)
}

func runOptimize(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), optTimeout)
	defer cancel()

	engine, err := buildEngine(ctx)
	if err != nil {
		return err
	}
	defer engine.Close()

	opts := services.Options{
		StartTime:       optStart,
		MaxDriveMinutes: optMaxDrive,
	}
	if cmd.Flags().Changed("target-revenue") {
		opts.DailyTargetRevenue = services.TargetRevenue(optTarget)
	}

	result, err := engine.Optimizer.OptimizeRoutesForDate(ctx, optDate, optTenant, opts)
	if err != nil {
		return err
	}

	if optPublish {
		if engine.Publisher == nil {
			return errors.New("--publish requires a reachable AMQP_URL")
		}
		if err := engine.Publisher.PublishResult(ctx, result); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func runGeocode(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if seedFile == "" {
		// The resolver needs no repository; an empty fixture satisfies Build.
		seedFile = os.DevNull
	}

	engine, err := buildEngine(ctx)
	if err != nil {
		return err
	}
	defer engine.Close()

	res, ok := engine.Resolver.Resolve(ctx, args[0])
	if !ok {
		return fmt.Errorf("address could not be geocoded: %s", args[0])
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
