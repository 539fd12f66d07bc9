package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ExcelEncoder writes each dataset to its own worksheet using
// excelize's StreamWriter, which keeps memory flat on large exports.
type ExcelEncoder struct {
	f      *excelize.File
	sw     *excelize.StreamWriter
	w      io.Writer
	rowIdx  int
	sheets  int
	flushed bool
	err     error
}

// NewExcelEncoder creates a new workbook encoder writing to w.
func NewExcelEncoder(w io.Writer) *ExcelEncoder {
	return &ExcelEncoder{
		f: excelize.NewFile(),
		w: w,
	}
}

func (e *ExcelEncoder) StartDataset(name string, columns []string) error {
	if e.err != nil {
		return e.err
	}

	// Finish the previous sheet's stream before opening the next.
	if e.sw != nil {
		if err := e.sw.Flush(); err != nil {
			e.err = err
			return err
		}
	}

	// Sheet names are capped at 31 chars by the format.
	if len(name) > 31 {
		name = name[:31]
	}

	if e.sheets == 0 {
		if err := e.f.SetSheetName("Sheet1", name); err != nil {
			e.err = err
			return err
		}
	} else {
		if _, err := e.f.NewSheet(name); err != nil {
			e.err = err
			return err
		}
	}
	e.sheets++

	sw, err := e.f.NewStreamWriter(name)
	if err != nil {
		e.err = err
		return err
	}
	e.sw = sw
	e.rowIdx = 1

	header := make([]interface{}, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	return e.setRow(header)
}

func (e *ExcelEncoder) WriteRow(values []interface{}) error {
	if e.err != nil {
		return e.err
	}
	if e.sw == nil {
		e.err = fmt.Errorf("WriteRow called before StartDataset")
		return e.err
	}

	row := make([]interface{}, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			row[i] = v
			continue
		}
		// Formula injection mitigation for cells opening with =,+,-,@.
		if len(s) > 0 {
			switch s[0] {
			case '=', '+', '-', '@':
				s = "'" + s
			}
		}
		row[i] = s
	}
	return e.setRow(row)
}

func (e *ExcelEncoder) setRow(row []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, e.rowIdx)
	if err != nil {
		e.err = err
		return err
	}
	if err := e.sw.SetRow(cell, row); err != nil {
		e.err = err
		return err
	}
	e.rowIdx++
	return nil
}

func (e *ExcelEncoder) Flush() error {
	if e.err != nil {
		return e.err
	}
	if e.flushed {
		return nil
	}
	if e.sw != nil {
		if err := e.sw.Flush(); err != nil {
			e.err = err
			return err
		}
		e.sw = nil
	}
	e.flushed = true
	return e.f.Write(e.w)
}

func (e *ExcelEncoder) Error() error { return e.err }

func (e *ExcelEncoder) Close() error {
	flushErr := e.Flush()
	if e.f != nil {
		_ = e.f.Close()
	}
	return flushErr
}
