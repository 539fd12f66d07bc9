package export

import (
	"encoding/json"
	"io"
)

// JSONEncoder writes datasets as JSON Lines: each row becomes one
// object tagged with its dataset name, so consumers can split the
// stream without a wrapper document.
type JSONEncoder struct {
	w       io.Writer
	dataset string
	columns []string
	err     error
}

// NewJSONEncoder creates a JSON Lines encoder writing to w.
func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) StartDataset(name string, columns []string) error {
	e.dataset = name
	e.columns = columns
	return e.err
}

func (e *JSONEncoder) WriteRow(values []interface{}) error {
	if e.err != nil {
		return e.err
	}

	rowMap := make(map[string]interface{}, len(values)+1)
	rowMap["dataset"] = e.dataset
	for i, v := range values {
		if i < len(e.columns) {
			rowMap[e.columns[i]] = v
		}
	}

	data, err := json.Marshal(rowMap)
	if err != nil {
		e.err = err
		return err
	}
	if _, err := e.w.Write(data); err != nil {
		e.err = err
		return err
	}
	if _, err := e.w.Write([]byte("\n")); err != nil {
		e.err = err
		return err
	}
	return nil
}

func (e *JSONEncoder) Flush() error { return nil }

func (e *JSONEncoder) Error() error { return e.err }

func (e *JSONEncoder) Close() error { return e.Flush() }
