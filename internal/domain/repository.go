package domain

// PointReader loads a point set.
type PointReader interface {
	ReadPoints(filename string) ([]Point, error)
}

// ResultWriter writes the outcome of a run.
type ResultWriter interface {
	WriteResult(filename string, report *Report) error
}

// ConfigReader reads the configuration.
type ConfigReader interface {
	ReadConfig(path string) (*Config, error)
}

// Report is the printable outcome of a run.
type Report struct {
	Result
	Points int
	Depth  int
}
