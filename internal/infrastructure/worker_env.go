package infrastructure

import (
	"io"
	"os"

	"github.com/kelseyhightower/envconfig"
)

const (
	envPrefix = "CLOSESTPAIR"

	// WorkerEnvVar marks a process started by ProcessSpawner.
	WorkerEnvVar = envPrefix + "_WORKER"

	// ResultFD is the descriptor a worker writes its result frame to.
	ResultFD = 3
)

// WorkerSettings is what a parent hands down to its worker processes through
// the environment.
type WorkerSettings struct {
	Worker      bool   `envconfig:"WORKER"`
	Compression string `envconfig:"COMPRESSION" default:"none"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile     string `envconfig:"LOG_FILE"`
	RunID       string `envconfig:"RUN_ID"`
}

// IsWorkerProcess reports whether the current process is a worker.
func IsWorkerProcess() bool {
	return os.Getenv(WorkerEnvVar) == "1"
}

// LoadWorkerSettings reads the settings a parent exported.
func LoadWorkerSettings() (*WorkerSettings, error) {
	var s WorkerSettings
	if err := envconfig.Process(envPrefix, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Environ renders the settings as environment entries for a child.
func (s *WorkerSettings) Environ() []string {
	return []string{
		WorkerEnvVar + "=1",
		envPrefix + "_COMPRESSION=" + s.Compression,
		envPrefix + "_LOG_LEVEL=" + s.LogLevel,
		envPrefix + "_LOG_FILE=" + s.LogFile,
		envPrefix + "_RUN_ID=" + s.RunID,
	}
}

// WorkerPipes returns the request stream and the result channel of a worker
// process.
func WorkerPipes() (io.Reader, io.WriteCloser) {
	return os.Stdin, os.NewFile(ResultFD, "result")
}
