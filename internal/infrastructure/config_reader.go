package infrastructure

import (
	"closest-pair/internal/domain"
	"errors"
	"flag"
	"io"
	"io/fs"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type YAMLConfigReader struct {
	logger *zap.Logger
	args   []string
}

// NewYAMLConfigReader returns a reader that layers the command line args over
// the YAML file.
func NewYAMLConfigReader(logger *zap.Logger, args []string) *YAMLConfigReader {
	return &YAMLConfigReader{logger: logger, args: args}
}

// ReadConfig reads the file named by -config, or defaultPath when the flag is
// absent. A missing default file is not an error.
func (r *YAMLConfigReader) ReadConfig(defaultPath string) (*domain.Config, error) {
	path, explicit, err := r.configPath(defaultPath)
	if err != nil {
		return nil, err
	}

	var config domain.Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		r.logger.Debug("Config file not found, using defaults", zap.String("path", path))
	default:
		return nil, err
	}

	// Аргументы командной строки имеют приоритет над файлом
	if err := r.applyCommandLineFlags(&config); err != nil {
		return nil, err
	}

	r.setDefaults(&config)

	return &config, nil
}

func (r *YAMLConfigReader) configPath(defaultPath string) (string, bool, error) {
	var scratch domain.Config
	flags, _ := newFlagSet(&scratch)
	flags.SetOutput(io.Discard)
	if err := flags.Parse(r.args); err != nil && !errors.Is(err, flag.ErrHelp) {
		return "", false, err
	}

	path, explicit := defaultPath, false
	flags.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			path, explicit = f.Value.String(), true
		}
	})
	return path, explicit, nil
}

func (r *YAMLConfigReader) applyCommandLineFlags(config *domain.Config) error {
	flags, apply := newFlagSet(config)
	if err := flags.Parse(r.args); err != nil {
		return err
	}
	apply()
	return nil
}

func newFlagSet(config *domain.Config) (*flag.FlagSet, func()) {
	flags := flag.NewFlagSet("closest", flag.ContinueOnError)

	flags.String("config", "", "Path to config file")
	input := flags.String("input", config.Input, "File with one 'x y' point per line")
	output := flags.String("output", config.Output, "Result file, stdout when empty")
	random := flags.Int("random", config.Random, "Generate this many random points instead of reading input")
	seed := flags.Int64("seed", config.Seed, "Seed for random points")
	depth := flags.Int("depth", config.Depth, "Number of levels that fork workers")
	spawner := flags.String("spawner", config.Spawner, "Worker isolation: process or inprocess")
	compression := flags.String("compression", config.Compression, "Request compression: none, lz4 or zstd")
	repeat := flags.Int("repeat", config.Repeat, "Number of runs")
	decimals := flags.Int("decimals", config.Decimals, "Decimals in the printed distance")
	logLevel := flags.String("log-level", config.LogLevel, "Log level")
	logFile := flags.String("log-file", config.LogFile, "Log file")
	metricsFile := flags.String("metrics-file", config.MetricsFile, "Prometheus textfile to write")

	return flags, func() {
		config.Input = *input
		config.Output = *output
		config.Random = *random
		config.Seed = *seed
		config.Depth = *depth
		config.Spawner = *spawner
		config.Compression = *compression
		config.Repeat = *repeat
		config.Decimals = *decimals
		config.LogLevel = *logLevel
		config.LogFile = *logFile
		config.MetricsFile = *metricsFile
	}
}

func (r *YAMLConfigReader) setDefaults(config *domain.Config) {
	if config.Spawner == "" {
		config.Spawner = "process"
	}
	if config.Compression == "" {
		config.Compression = "none"
	}
	if config.Repeat == 0 {
		config.Repeat = 1
	}
	if config.Decimals == 0 {
		config.Decimals = 6
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.Seed == 0 {
		config.Seed = 1
	}
}
