package export

import (
	"bufio"
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// CSVEncoder writes datasets as one CSV stream: a comment-style
// dataset marker, the header row, then the rows. A 64KB buffer keeps
// syscalls down on large exports.
type CSVEncoder struct {
	w     *csv.Writer
	buf   *bufio.Writer
	first bool
	err   error
}

// NewCSVEncoder creates a CSV encoder writing to w.
func NewCSVEncoder(w io.Writer) *CSVEncoder {
	buf := bufio.NewWriterSize(w, 64*1024)
	return &CSVEncoder{
		w:     csv.NewWriter(buf),
		buf:   buf,
		first: true,
	}
}

func (e *CSVEncoder) StartDataset(name string, columns []string) error {
	if e.err != nil {
		return e.err
	}

	// Blank separator line between datasets, marker row before each.
	if !e.first {
		if err := e.w.Write([]string{}); err != nil {
			e.err = err
			return err
		}
	}
	e.first = false

	if err := e.w.Write([]string{"# " + name}); err != nil {
		e.err = err
		return err
	}
	return e.w.Write(columns)
}

func (e *CSVEncoder) WriteRow(values []interface{}) error {
	if e.err != nil {
		return e.err
	}

	record := make([]string, len(values))
	for i, v := range values {
		record[i] = toString(v)
	}
	return e.w.Write(record)
}

func (e *CSVEncoder) Flush() error {
	e.w.Flush()
	if err := e.w.Error(); err != nil {
		return err
	}
	return e.buf.Flush()
}

func (e *CSVEncoder) Error() error {
	if e.err != nil {
		return e.err
	}
	return e.w.Error()
}

func (e *CSVEncoder) Close() error {
	return e.Flush()
}

// toString converts row values without fmt.Sprintf on the hot path.
func toString(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "1"
		}
		return "0"
	case time.Time:
		return v.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}
