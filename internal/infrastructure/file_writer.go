package infrastructure

import (
	"bufio"
	"closest-pair/internal/domain"
	"fmt"
	"io"
	"os"
	"strconv"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type FmtFunc func(float64) string

// DecimalFormatter prints values with a fixed number of decimals.
func DecimalFormatter(decimals int) FmtFunc {
	return func(val float64) string {
		return strconv.FormatFloat(val, 'f', decimals, 64)
	}
}

type TXTFileWriter struct {
	logger    *zap.Logger
	formatter FmtFunc
	stdout    io.Writer
}

func NewTXTFileWriter(logger *zap.Logger, formatter FmtFunc) *TXTFileWriter {
	return &TXTFileWriter{logger: logger, formatter: formatter, stdout: os.Stdout}
}

// WriteResult writes the report to filename, or to stdout when filename is
// empty.
func (w *TXTFileWriter) WriteResult(filename string, report *domain.Report) (err error) {
	if filename == "" {
		return w.write(w.stdout, report)
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, file.Close())
	}()

	return w.write(file, report)
}

func (w *TXTFileWriter) write(out io.Writer, report *domain.Report) error {
	writer := bufio.NewWriter(out)

	fmt.Fprintf(writer, "distance\t%s\n", w.formatter(report.Distance))
	fmt.Fprintf(writer, "workers\t%d\n", report.Workers)
	fmt.Fprintf(writer, "points\t%d\n", report.Points)
	fmt.Fprintf(writer, "depth\t%d\n", report.Depth)

	return writer.Flush()
}
