package export

import "io"

// DatasetEncoder is the common interface for the tabular companion
// formats (CSV, JSON Lines, Excel). A report export is a sequence of
// named datasets, each with its own column set; the walker is
// agnostic of the output format.
type DatasetEncoder interface {
	// StartDataset opens a named table and writes its column headers.
	// Called once per dataset, before any of its rows.
	StartDataset(name string, columns []string) error

	// WriteRow writes one row of the current dataset. The values slice
	// length must match the current column set.
	WriteRow(values []interface{}) error

	// Flush pushes buffered data to the underlying writer.
	Flush() error

	// Error returns the first error seen during encoding, allowing
	// tight loops with a single check at the end.
	Error() error

	// Close flushes and releases resources. For Excel this writes the
	// workbook trailer.
	io.Closer
}
