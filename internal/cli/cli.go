// ============================================================================
// cpusched CLI - Command Line Interface
// ============================================================================
//
// Package: internal/cli
// File: cli.go
// Purpose: Provides user-friendly command line interface based on Cobra framework
//
// Command Structure:
//   cpusched                       # Root command
//   ├── run                        # Simulate one algorithm
//   │   ├── --file, -f            # Task file (.json / .yaml / .csv)
//   │   ├── --algorithm, -a       # fcfs | rr | sjf | priority | priority-preemptive
//   │   ├── --quantum, -q         # Round-Robin time slice
//   │   ├── --format              # table | json | yaml | csv
//   │   ├── --gantt               # Append ASCII Gantt chart (table format)
//   │   └── --trace-csv           # Also write the trace to a CSV file
//   ├── compare                    # Run several algorithms on the same tasks
//   ├── serve                      # Start gRPC service (+ metrics endpoint)
//   ├── submit                     # Send a task file to a remote service
//   ├── algorithms                 # List available algorithms
//   ├── --config, -c              # Config file (default: configs/default.yaml)
//   ├── --version                  # Display version information
//   └── --help                     # Display help information
//
// Configuration Management:
//   Flags override the config file, the config file overrides built-in
//   defaults, and CPUSCHED_* environment variables override both file and
//   defaults (see internal/config). When the default config file does not
//   exist the built-in defaults are used.
//
//   Examples:
//     ./cpusched run -f examples/tasks.yaml -a rr -q 2
//     ./cpusched compare -f examples/tasks.yaml --workers 4
//     ./cpusched serve -c configs/default.yaml
//     ./cpusched submit -f examples/tasks.yaml -a sjf --server localhost:50051
//
// serve Command:
//   1. Load config file
//   2. Start gRPC server on server.port
//   3. Start Metrics HTTP server (if enabled)
//   4. Listen for system signals (SIGINT, SIGTERM)
//   5. Gracefully shutdown both servers
//
// Error Handling:
//   - Invalid input (bad task file, missing quantum, ...): error printed, exit 1
//   - Internal consistency failure: error printed, exit 1, logged at error level
//
// ============================================================================

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ChuLiYu/cpusched/internal/config"
	"github.com/ChuLiYu/cpusched/internal/logging"
	"github.com/ChuLiYu/cpusched/internal/metrics"
	"github.com/ChuLiYu/cpusched/internal/report"
	"github.com/ChuLiYu/cpusched/internal/scheduler"
	"github.com/ChuLiYu/cpusched/internal/server"
	"github.com/ChuLiYu/cpusched/internal/taskfile"
	"github.com/ChuLiYu/cpusched/internal/worker"
	"github.com/ChuLiYu/cpusched/pkg/types"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Version is reported by --version
var Version = "1.0.0"

var (
	configFile string
	cfg        *config.Config
)

func BuildCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cpusched",
		Short: "cpusched: a deterministic CPU scheduling simulator",
		Long: `cpusched simulates classic CPU scheduling algorithms on a task set:
- First-Come-First-Served, Round-Robin, Shortest-Job-First
- Priority (non-preemptive and preemptive)
- Per-task completion, turnaround and waiting times with averages
- Execution traces, Gantt charts and side by side comparisons`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig(configFile, cmd.Flags().Changed("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg = loaded
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultPath, "config file path")

	rootCmd.AddCommand(buildRunCommand())
	rootCmd.AddCommand(buildCompareCommand())
	rootCmd.AddCommand(buildServeCommand())
	rootCmd.AddCommand(buildSubmitCommand())
	rootCmd.AddCommand(buildAlgorithmsCommand())

	return rootCmd
}

// loadConfig reads path; a missing default file falls back to built-in defaults
func loadConfig(path string, explicit bool) (*config.Config, error) {
	if !explicit && path == config.DefaultPath {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return config.Load("")
		}
	}
	return config.Load(path)
}

func newLogger(w io.Writer) zerolog.Logger {
	return logging.New(cfg.Log.Level, cfg.Log.Pretty, w)
}

// ============================================================================
// run
// ============================================================================

type runOptions struct {
	file      string
	algorithm string
	quantum   int
	format    string
	gantt     bool
	traceCSV  string
}

func buildRunCommand() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate one scheduling algorithm on a task file",
		Long:  "Load tasks from a JSON, YAML or CSV file, simulate the chosen algorithm and print per-task metrics.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "task file (.json, .yaml, .yml, .csv)")
	cmd.Flags().StringVarP(&opts.algorithm, "algorithm", "a", "", "algorithm (default from config)")
	cmd.Flags().IntVarP(&opts.quantum, "quantum", "q", 0, "Round-Robin time quantum (default from config)")
	cmd.Flags().StringVar(&opts.format, "format", "", "output format: table, json, yaml, csv (default from config)")
	cmd.Flags().BoolVar(&opts.gantt, "gantt", false, "print an ASCII Gantt chart after the table (default from config)")
	cmd.Flags().StringVar(&opts.traceCSV, "trace-csv", "", "also write the execution trace to this CSV file")
	cmd.MarkFlagRequired("file")

	return cmd
}

func runSimulation(cmd *cobra.Command, opts runOptions) error {
	logger := newLogger(cmd.ErrOrStderr())

	algName := cfg.Simulation.Algorithm
	if cmd.Flags().Changed("algorithm") {
		algName = opts.algorithm
	}
	quantum := cfg.Simulation.Quantum
	if cmd.Flags().Changed("quantum") {
		quantum = opts.quantum
	}
	formatName := cfg.Output.Format
	if cmd.Flags().Changed("format") {
		formatName = opts.format
	}
	gantt := cfg.Output.Gantt
	if cmd.Flags().Changed("gantt") {
		gantt = opts.gantt
	}

	alg, err := types.ParseAlgorithm(algName)
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}

	tasks, err := taskfile.Load(opts.file)
	if err != nil {
		return err
	}

	start := time.Now()
	rep, err := scheduler.Simulate(alg, tasks, quantum)
	if err != nil {
		logFailure(logger, alg, err)
		return err
	}
	logger.Debug().
		Str("algorithm", alg.String()).
		Int("tasks", len(tasks)).
		Dur("elapsed", time.Since(start)).
		Msg("simulation finished")

	if err := report.Write(cmd.OutOrStdout(), rep, format, gantt); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if opts.traceCSV != "" {
		if err := writeTraceFile(opts.traceCSV, rep.Trace); err != nil {
			return err
		}
		logger.Info().Str("path", opts.traceCSV).Msg("trace written")
	}
	return nil
}

func writeTraceFile(path string, trace types.Trace) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create trace file: %w", err)
	}
	if err := report.WriteTraceCSV(f, trace); err != nil {
		f.Close()
		return fmt.Errorf("failed to write trace file: %w", err)
	}
	return f.Close()
}

func logFailure(logger zerolog.Logger, alg types.Algorithm, err error) {
	if scheduler.IsInternalError(err) {
		logger.Error().Err(err).Str("algorithm", alg.String()).Msg("simulation produced an inconsistent result")
		return
	}
	logger.Debug().Err(err).Str("algorithm", alg.String()).Msg("simulation rejected input")
}

// ============================================================================
// compare
// ============================================================================

func buildCompareCommand() *cobra.Command {
	var (
		file       string
		algorithms []string
		quantum    int
		workers    int
		format     string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare several algorithms on the same task file",
		Long:  "Run each algorithm concurrently on the worker pool and print a comparison table.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd.ErrOrStderr())

			if !cmd.Flags().Changed("quantum") {
				quantum = cfg.Simulation.Quantum
			}
			if !cmd.Flags().Changed("workers") {
				workers = cfg.Worker.WorkerCount
			}

			algs, err := parseAlgorithms(algorithms)
			if err != nil {
				return err
			}
			tasks, err := taskfile.Load(file)
			if err != nil {
				return err
			}
			if err := scheduler.ValidateTasks(tasks, false); err != nil {
				return err
			}

			reports, err := worker.Compare(tasks, algs, quantum, worker.CompareOptions{
				Workers:    workers,
				BufferSize: cfg.Worker.BufferSize,
				Logger:     logger,
			})
			if err != nil {
				return err
			}

			switch format {
			case string(report.FormatJSON):
				return report.WriteJSON(cmd.OutOrStdout(), reports)
			case string(report.FormatTable):
				return report.WriteComparison(cmd.OutOrStdout(), reports)
			default:
				return fmt.Errorf("%w: %q (compare supports table, json)", report.ErrUnknownFormat, format)
			}
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "task file (.json, .yaml, .yml, .csv)")
	cmd.Flags().StringSliceVar(&algorithms, "algorithms", nil, "comma separated algorithms (default all)")
	cmd.Flags().IntVarP(&quantum, "quantum", "q", 0, "Round-Robin time quantum (default from config)")
	cmd.Flags().IntVar(&workers, "workers", 0, "number of concurrent workers (default from config)")
	cmd.Flags().StringVar(&format, "format", "table", "output format: table, json")
	cmd.MarkFlagRequired("file")

	return cmd
}

func parseAlgorithms(names []string) ([]types.Algorithm, error) {
	algs := make([]types.Algorithm, 0, len(names))
	for _, name := range names {
		alg, err := types.ParseAlgorithm(name)
		if err != nil {
			return nil, err
		}
		algs = append(algs, alg)
	}
	return algs, nil
}

// ============================================================================
// serve
// ============================================================================

func buildServeCommand() *cobra.Command {
	var (
		port        int
		metricsPort int
		withMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the gRPC simulation service",
		Long:  "Serve cpusched.v1.Simulator over gRPC, with an optional Prometheus /metrics endpoint.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("port") {
				port = cfg.Server.Port
			}
			if !cmd.Flags().Changed("metrics-port") {
				metricsPort = cfg.Metrics.Port
			}
			if !cmd.Flags().Changed("metrics") {
				withMetrics = cfg.Metrics.Enabled
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, newLogger(cmd.ErrOrStderr()), port, metricsPort, withMetrics)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "gRPC port (default from config)")
	cmd.Flags().IntVar(&metricsPort, "metrics-port", 0, "metrics HTTP port (default from config)")
	cmd.Flags().BoolVar(&withMetrics, "metrics", false, "expose Prometheus metrics (default from config)")

	return cmd
}

func serve(ctx context.Context, logger zerolog.Logger, port, metricsPort int, withMetrics bool) error {
	var collector *metrics.Collector
	if withMetrics {
		collector = metrics.NewCollector(nil)
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", port, err)
	}

	grpcServer := server.NewServer(collector, logger, cfg.Worker.WorkerCount, cfg.Worker.BufferSize).NewGRPCServer()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Int("port", port).Msg("gRPC server listening")
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info().Msg("received shutdown signal, stopping gracefully")
		grpcServer.GracefulStop()
		return nil
	})
	if collector != nil {
		g.Go(func() error {
			logger.Info().Int("port", metricsPort).Msg("metrics server listening")
			return collector.StartServer(ctx, metricsPort)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

// ============================================================================
// submit
// ============================================================================

func buildSubmitCommand() *cobra.Command {
	var (
		file      string
		addr      string
		algorithm string
		quantum   int
		compare   bool
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a task file to a remote cpusched service",
		Long:  "Send tasks to a running 'cpusched serve' and print the report it returns.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("server") {
				addr = fmt.Sprintf("localhost:%d", cfg.Server.Port)
			}
			if !cmd.Flags().Changed("algorithm") {
				algorithm = cfg.Simulation.Algorithm
			}
			if !cmd.Flags().Changed("quantum") {
				quantum = cfg.Simulation.Quantum
			}

			tasks, err := taskfile.Load(file)
			if err != nil {
				return err
			}

			conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
			if err != nil {
				return fmt.Errorf("failed to connect to %s: %w", addr, err)
			}
			defer conn.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			return submit(ctx, cmd.OutOrStdout(), newLogger(cmd.ErrOrStderr()), server.NewClient(conn), tasks, algorithm, quantum, compare)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "task file (.json, .yaml, .yml, .csv)")
	cmd.Flags().StringVar(&addr, "server", "", "server address (default localhost:<server.port>)")
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", "algorithm (default from config)")
	cmd.Flags().IntVarP(&quantum, "quantum", "q", 0, "Round-Robin time quantum (default from config)")
	cmd.Flags().BoolVar(&compare, "compare", false, "compare all algorithms instead of running one")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")
	cmd.MarkFlagRequired("file")

	return cmd
}

func submit(ctx context.Context, out io.Writer, logger zerolog.Logger, client *server.Client, tasks []types.Task, algorithm string, quantum int, compare bool) error {
	if compare {
		runID, reports, err := client.Compare(ctx, nil, tasks, quantum)
		if err != nil {
			return fmt.Errorf("remote compare failed: %w", err)
		}
		logger.Info().Str("run_id", runID).Int("reports", len(reports)).Msg("compare finished")
		return report.WriteComparison(out, reports)
	}

	alg, err := types.ParseAlgorithm(algorithm)
	if err != nil {
		return err
	}
	runID, rep, err := client.Simulate(ctx, alg, tasks, quantum)
	if err != nil {
		return fmt.Errorf("remote simulation failed: %w", err)
	}
	logger.Info().Str("run_id", runID).Str("algorithm", alg.String()).Msg("simulation finished")
	return report.Write(out, rep, report.FormatTable, cfg.Output.Gantt)
}

// ============================================================================
// algorithms
// ============================================================================

func buildAlgorithmsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List available scheduling algorithms",
		RunE: func(cmd *cobra.Command, args []string) error {
			return report.WriteAlgorithms(cmd.OutOrStdout())
		},
	}
}
