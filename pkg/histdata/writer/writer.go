// Package writer contains the output sinks for converted bar rows.
package writer

import (
	"github.com/rxtech-lab/histdata/internal/types"
)

// Writer persists an ordered sequence of output rows. The file is finalized
// by a single Finalize call; there are no partial or incremental writes
// visible to readers before that.
type Writer interface {
	// Initialize sets up the output with the given column header. The first
	// header entry is the date column name, which varies with timeframe and
	// timezone.
	Initialize(header []string) error
	// WriteRow appends a single row in provider-return order.
	WriteRow(row types.OutputRow) error
	// Finalize completes the write and returns the output path.
	Finalize() (outputPath string, err error)
	// Close releases any resources held by the writer.
	Close() error
	// OutputPath returns the configured output file path.
	OutputPath() string
}
