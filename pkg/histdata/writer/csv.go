package writer

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/rxtech-lab/histdata/internal/types"
	"github.com/rxtech-lab/histdata/pkg/errors"
)

// CSVWriter writes rows to a single CSV file.
type CSVWriter struct {
	outputPath string
	file       *os.File
	csv        *csv.Writer
}

// NewCSVWriter creates a CSV writer targeting the given path. The path must
// already have passed conflict resolution.
func NewCSVWriter(outputPath string) Writer {
	return &CSVWriter{
		outputPath: outputPath,
	}
}

// Initialize creates the output file and writes the header row.
func (w *CSVWriter) Initialize(header []string) error {
	file, err := os.Create(w.outputPath)
	if err != nil {
		return wrapWriteError(w.outputPath, err)
	}

	w.file = file
	w.csv = csv.NewWriter(file)

	if err := w.csv.Write(header); err != nil {
		file.Close()

		return wrapWriteError(w.outputPath, err)
	}

	return nil
}

// WriteRow appends a single row.
func (w *CSVWriter) WriteRow(row types.OutputRow) error {
	if w.csv == nil {
		return errors.New(errors.ErrCodeWriteFailed, "CSV writer not initialized")
	}

	record := []string{
		row.Timestamp,
		row.Open.String(),
		row.High.String(),
		row.Low.String(),
		row.Close.String(),
		strconv.FormatInt(row.Volume, 10),
	}

	if err := w.csv.Write(record); err != nil {
		return wrapWriteError(w.outputPath, err)
	}

	return nil
}

// Finalize flushes buffered rows and closes the file.
func (w *CSVWriter) Finalize() (string, error) {
	if w.csv == nil {
		return "", errors.New(errors.ErrCodeWriteFailed, "CSV writer not initialized")
	}

	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		w.file.Close()

		return "", wrapWriteError(w.outputPath, err)
	}

	if err := w.file.Close(); err != nil {
		return "", wrapWriteError(w.outputPath, err)
	}

	w.file = nil
	w.csv = nil

	return w.outputPath, nil
}

// Close releases the file handle if Finalize was not reached.
func (w *CSVWriter) Close() error {
	if w.file == nil {
		return nil
	}

	err := w.file.Close()
	w.file = nil
	w.csv = nil

	return err
}

// OutputPath returns the configured output file path.
func (w *CSVWriter) OutputPath() string {
	return w.outputPath
}

// wrapWriteError attaches actionable guidance to permission failures: the
// usual causes are the file being open in a spreadsheet, missing directory
// permissions or a read-only attribute.
func wrapWriteError(path string, err error) error {
	if os.IsPermission(err) {
		return errors.Wrapf(errors.ErrCodeWriteFailed, err,
			"permission denied writing %s; close the file in other applications, check directory permissions or the read-only attribute", path)
	}

	return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to write %s", path)
}
