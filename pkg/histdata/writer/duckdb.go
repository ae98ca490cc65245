package writer

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"

	"github.com/rxtech-lab/histdata/internal/types"
)

// DuckDBWriter buffers rows in an in-memory DuckDB table and exports them to
// a Parquet file on Finalize.
type DuckDBWriter struct {
	db         *sql.DB
	tx         *sql.Tx
	stmt       *sql.Stmt
	outputPath string
}

// NewDuckDBWriter creates a new DuckDBWriter targeting the given Parquet path.
func NewDuckDBWriter(outputPath string) Writer {
	return &DuckDBWriter{
		outputPath: outputPath,
	}
}

// Initialize opens the in-memory database, creates the staging table with the
// requested date column name, begins a transaction and prepares the insert.
func (w *DuckDBWriter) Initialize(header []string) (err error) {
	w.db, err = sql.Open("duckdb", ":memory:")
	if err != nil {
		return fmt.Errorf("failed to open DuckDB connection: %w", err)
	}

	dateColumn := "Date"
	if len(header) > 0 {
		dateColumn = header[0]
	}

	_, err = w.db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS market_data (
			id TEXT,
			"%s" TEXT,
			"Open" DOUBLE,
			"High" DOUBLE,
			"Low" DOUBLE,
			"Close" DOUBLE,
			"Volume" BIGINT
		)
	`, dateColumn))
	if err != nil {
		w.db.Close()

		return fmt.Errorf("failed to create table: %w", err)
	}

	w.tx, err = w.db.Begin()
	if err != nil {
		w.db.Close()

		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	w.stmt, err = w.tx.Prepare(`
		INSERT INTO market_data
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		w.tx.Rollback()
		w.db.Close()

		return fmt.Errorf("failed to prepare statement: %w", err)
	}

	return nil
}

// WriteRow inserts a single row using the prepared statement within the
// transaction.
func (w *DuckDBWriter) WriteRow(row types.OutputRow) error {
	if w.stmt == nil {
		return fmt.Errorf("writer not initialized or statement is nil")
	}

	id := uuid.New().String()

	_, err := w.stmt.Exec(
		id,
		row.Timestamp,
		row.Open.InexactFloat64(),
		row.High.InexactFloat64(),
		row.Low.InexactFloat64(),
		row.Close.InexactFloat64(),
		row.Volume,
	)
	if err != nil {
		return fmt.Errorf("failed to insert data: %w", err)
	}

	return nil
}

// Finalize commits the transaction and exports the data to a Parquet file.
func (w *DuckDBWriter) Finalize() (outputPath string, err error) {
	if w.tx == nil {
		return "", fmt.Errorf("writer not initialized or transaction is nil")
	}

	if err = w.tx.Commit(); err != nil {
		w.tx.Rollback()

		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	w.tx = nil

	_, err = w.db.Exec(fmt.Sprintf(`COPY market_data TO '%s' (FORMAT PARQUET)`, w.outputPath))
	if err != nil {
		return "", fmt.Errorf("failed to export to Parquet: %w", err)
	}

	return w.outputPath, nil
}

// Close rolls back any open transaction and closes the database.
func (w *DuckDBWriter) Close() error {
	if w.stmt != nil {
		w.stmt.Close()
		w.stmt = nil
	}

	if w.tx != nil {
		w.tx.Rollback()
		w.tx = nil
	}

	if w.db != nil {
		err := w.db.Close()
		w.db = nil

		return err
	}

	return nil
}

// OutputPath returns the configured output file path.
func (w *DuckDBWriter) OutputPath() string {
	return w.outputPath
}
