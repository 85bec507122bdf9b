// Package main provides the entry point of the card transactions generator
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	businessflow "github.com/amirphl/card-transactions-generator/business_flow"
	"github.com/amirphl/card-transactions-generator/config"
	"github.com/amirphl/card-transactions-generator/models"
	"github.com/amirphl/card-transactions-generator/schema"
	"github.com/amirphl/card-transactions-generator/utils"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "txgen",
		Short:         "Generate synthetic card payment transactions as partitioned Parquet files",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(partitionCmd())
	rootCmd.AddCommand(schemaCmd())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error [%s]: %v\n", errorCode(err), err)
		os.Exit(1)
	}
}

func errorCode(err error) string {
	if code := businessflow.ErrorCode(err); code != "" {
		return code
	}
	return "INTERNAL_ERROR"
}

func generateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Run one array job: assign a partition order, generate and upload every table",
		Long: `Reads its configuration from the environment (and an optional .env file),
claims an order inside the job's partition date, runs the worker threads and
uploads each table to the payment-data bucket and to its table bucket.
The process exits non-zero if any upload fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context())
		},
	}
}

// loadConfig loads and validates the configuration with the given validator
func loadConfig(validateFn func(*config.GeneratorConfig) error) (*config.GeneratorConfig, error) {
	cfg, err := config.LoadGeneratorConfig()
	if err != nil {
		return nil, businessflow.NewBusinessError("CONFIGURATION_LOAD_FAILED", "Failed to load configuration", errors.Join(businessflow.ErrConfiguration, err))
	}
	if err := validateFn(cfg); err != nil {
		return nil, businessflow.NewBusinessError("INVALID_CONFIGURATION", "Invalid configuration", errors.Join(businessflow.ErrConfiguration, err))
	}
	return cfg, nil
}

func runGenerate(ctx context.Context) error {
	cfg, err := loadConfig(config.ValidateGeneratorConfig)
	if err != nil {
		return err
	}

	logger, logCloser, err := utils.NewLogger(cfg.Logging, "[txgen] ")
	if err != nil {
		return fmt.Errorf("failed to open log output: %w", err)
	}
	defer logCloser.Close()

	runID := uuid.NewString()
	logger.Printf("Starting generator %s run %s for job %s (index %d)", Version, runID, cfg.Job.JobID(), cfg.Job.JobIndex())

	if cfg.Profiling.Enabled {
		stopProfiler, err := startProfiler(cfg.Profiling, cfg.Job, logger)
		if err != nil {
			logger.Printf("Profiler disabled: %v", err)
		} else {
			defer stopProfiler()
		}
	}

	app, err := initializeApplication(ctx, cfg, runID, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	if app.router != nil {
		address := fmt.Sprintf("%s:%d", cfg.Metrics.Host, cfg.Metrics.Port)
		go func() {
			if err := app.router.Start(address); err != nil {
				logger.Printf("Status server stopped: %v", err)
			}
		}()
	}

	result, runErr := app.jobFlow.Run(ctx)

	if cfg.Report.Path != "" && result != nil {
		if err := app.report.Write(cfg.Report.Path, result.Summary(cfg.Job), result.Uploads()); err != nil {
			logger.Printf("Failed to write report %s: %v", cfg.Report.Path, err)
		} else {
			logger.Printf("Report written to %s", cfg.Report.Path)
		}
	}

	return runErr
}

func partitionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "partition",
		Short: "Inspect and repair partition counter records",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the counter record of a partition date",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, _ := cmd.Flags().GetString("date")
			return withPartitionFlow(cmd.Context(), date, func(ctx context.Context, flow businessflow.PartitionFlow) error {
				snap, err := flow.Show(ctx, date)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			})
		},
	}
	show.Flags().String("date", "", "Partition date (YYYY-MM-DD)")
	_ = show.MarkFlagRequired("date")

	complete := &cobra.Command{
		Use:   "complete",
		Short: "Release a job that failed permanently from the active set of a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, _ := cmd.Flags().GetString("date")
			jobID, _ := cmd.Flags().GetString("job-id")
			return withPartitionFlow(cmd.Context(), date, func(ctx context.Context, flow businessflow.PartitionFlow) error {
				snap, err := flow.Show(ctx, date)
				if err != nil {
					return err
				}
				order, ok := snap.ActiveJobs[jobID]
				if !ok {
					return businessflow.NewBusinessErrorf("JOB_NOT_ACTIVE", "Job %s is not active in %s", businessflow.ErrJobNotActive, jobID, date)
				}
				if err := flow.Complete(ctx, date, jobID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Released job %s (order %d) from %s\n", jobID, order, date)
				return nil
			})
		},
	}
	complete.Flags().String("date", "", "Partition date (YYYY-MM-DD)")
	complete.Flags().String("job-id", "", "Job id as recorded in active_jobs")
	_ = complete.MarkFlagRequired("date")
	_ = complete.MarkFlagRequired("job-id")

	cmd.AddCommand(show, complete)
	return cmd
}

func withPartitionFlow(ctx context.Context, date string, fn func(context.Context, businessflow.PartitionFlow) error) error {
	if _, err := time.Parse(models.PartitionDateLayout, date); err != nil {
		return businessflow.NewBusinessErrorf("INVALID_DATE", "Invalid partition date %q", errors.Join(businessflow.ErrConfiguration, err), date)
	}
	cfg, err := loadConfig(config.ValidatePartitionConfig)
	if err != nil {
		return err
	}
	logger := log.New(io.Discard, "", 0)
	if cfg.Logging.Level == "debug" {
		logger = log.New(os.Stderr, "[txgen] ", log.LstdFlags|log.LUTC)
	}

	res := newResources(cfg, logger)
	defer res.Close()

	store, err := res.partitionStore(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return fn(ctx, businessflow.NewPartitionFlow(store, logger))
}

func schemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema [table]",
		Short: "List the generated tables or the columns of one table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				s, err := schema.Load(schema.TableName(args[0]))
				if err != nil {
					return err
				}
				for _, c := range s.Columns {
					if c.Kind == schema.KindDecimal {
						fmt.Fprintf(out, "%-40s decimal(%d,%d)\n", c.Name, c.Precision, c.Scale)
						continue
					}
					fmt.Fprintf(out, "%-40s %s\n", c.Name, c.Kind)
				}
				return nil
			}

			schemas, err := schema.LoadAll()
			if err != nil {
				return err
			}
			names := make([]string, 0, len(schemas))
			for name := range schemas {
				names = append(names, string(name))
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(out, "%-20s %3d columns\n", name, len(schemas[schema.TableName(name)].Columns))
			}
			return nil
		},
	}
	return cmd
}
