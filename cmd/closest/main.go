package main

import (
	"closest-pair/internal/app"
	"closest-pair/internal/domain"
	"closest-pair/internal/infrastructure"
	"closest-pair/internal/transport"
	"closest-pair/pkg/geometry"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if infrastructure.IsWorkerProcess() {
		os.Exit(runWorker())
	}

	// Инициализация логгера
	logger := initLogger("info")
	defer logger.Sync()

	// Чтение конфигурации
	configReader := infrastructure.NewYAMLConfigReader(logger, os.Args[1:])
	config, err := configReader.ReadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to read config", zap.Error(err))
	}

	runID := uuid.NewString()
	logger = initLogger(config.LogLevel, logPaths(config.LogFile)...).With(zap.String("run_id", runID))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Чтение входных данных
	points, err := loadPoints(logger, config)
	if err != nil {
		logger.Fatal("Failed to load points", zap.Error(err))
	}
	geometry.SortByX(points)

	if len(points) < 2 {
		logger.Fatal("Not enough points", zap.Error(domain.ErrTooFewPoints), zap.Int("count", len(points)))
	}

	settings := infrastructure.WorkerSettings{
		LogLevel: config.LogLevel,
		LogFile:  config.LogFile,
		RunID:    runID,
	}
	solver, err := newSolver(logger, config.GetSpawnerKind(), config.Compression, settings)
	if err != nil {
		logger.Fatal("Failed to create solver", zap.Error(err))
	}

	metrics := infrastructure.NewMetrics()
	runner := app.NewRunner(logger, solver, metrics)

	logger.Info("Starting closest pair search",
		zap.Int("points", len(points)),
		zap.Int("depth", config.Depth),
		zap.String("spawner", config.Spawner),
		zap.String("compression", config.Compression))

	report, timing, err := runner.Run(ctx, points, config.Depth, config.Repeat)
	if err != nil {
		logger.Fatal("Closest pair search failed", zap.Error(err))
	}

	logger.Info("Timing",
		zap.Int("runs", timing.Runs),
		zap.Float64("mean_seconds", timing.Mean),
		zap.Float64("stddev_seconds", timing.StdDev))

	// Запись результатов
	fileWriter := infrastructure.NewTXTFileWriter(logger, infrastructure.DecimalFormatter(config.Decimals))
	if err := fileWriter.WriteResult(config.Output, report); err != nil {
		logger.Fatal("Failed to write result", zap.String("file", config.Output), zap.Error(err))
	}

	if config.MetricsFile != "" {
		if err := metrics.WriteTextfile(config.MetricsFile); err != nil {
			logger.Error("Failed to write metrics", zap.String("file", config.MetricsFile), zap.Error(err))
		}
	}

	logger.Info("Closest pair search completed successfully",
		zap.Float64("distance", report.Distance),
		zap.Int("workers", report.Workers))
}

// runWorker serves one subproblem for a parent process and returns the exit
// code.
func runWorker() int {
	settings, err := infrastructure.LoadWorkerSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		return 2
	}

	logger := initLogger(settings.LogLevel, logPaths(settings.LogFile)...).With(
		zap.String("run_id", settings.RunID),
		zap.String("role", "worker"),
		zap.Int("pid", os.Getpid()))
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	solver, err := newSolver(logger, domain.SpawnerProcess, settings.Compression, *settings)
	if err != nil {
		logger.Error("Failed to create solver", zap.Error(err))
		return 1
	}

	in, out := infrastructure.WorkerPipes()
	defer out.Close()

	if err := app.ServeWorker(ctx, logger, solver, in, out); err != nil {
		logger.Error("Worker failed", zap.Error(err))
		return 1
	}
	return 0
}

func newSolver(logger *zap.Logger, kind domain.SpawnerKind, compression string, settings infrastructure.WorkerSettings) (*app.ParallelSolver, error) {
	c, err := transport.ParseCompression(compression)
	if err != nil {
		return nil, err
	}
	codec := transport.NewCodec(c)

	if kind == domain.SpawnerInProcess {
		return app.NewInProcessSolver(logger, codec), nil
	}

	self, err := os.Executable()
	if err != nil {
		return nil, err
	}
	spawner := infrastructure.NewProcessSpawner(logger, self, codec, settings)
	return app.NewParallelSolver(logger, spawner), nil
}

func loadPoints(logger *zap.Logger, config *domain.Config) ([]domain.Point, error) {
	if config.Input == "" {
		if config.Random <= 0 {
			return nil, fmt.Errorf("%w: set -input or -random", domain.ErrTooFewPoints)
		}
		logger.Info("Generating random points", zap.Int("count", config.Random), zap.Int64("seed", config.Seed))
		return infrastructure.RandomPoints(config.Random, config.Seed), nil
	}

	fileReader := infrastructure.NewTXTFileReader(logger)
	return fileReader.ReadPoints(config.Input)
}

func logPaths(file string) []string {
	if file == "" {
		return nil
	}
	return []string{file}
}

// initLogger initializes the logger with the specified level and log file name.
// Without a file the logger writes to stderr, stdout is reserved for results.
func initLogger(level string, logfileName ...string) *zap.Logger {
	config := zap.NewProductionConfig()

	switch level {
	case "debug":
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	outputPath := []string{"stderr"}
	if len(logfileName) > 0 {
		outputPath = logfileName
	}

	config.OutputPaths = outputPath
	config.ErrorOutputPaths = outputPath
	config.EncoderConfig.TimeKey = "t"
	config.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	config.DisableCaller = false

	logger, err := config.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
