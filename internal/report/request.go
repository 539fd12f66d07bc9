package report

import (
	"errors"
	"fmt"
	"strings"
)

// Request is the report submission accepted by the HTTP API and
// forwarded to the analytics service.
type Request struct {
	SellerName  string   `json:"sellerName"`
	Department  string   `json:"department"`
	OfferedItem string   `json:"offeredItem"`
	Days        int      `json:"days"`
	Limit       int      `json:"limit"`
	Email       string   `json:"email"`
	Filters     []string `json:"filters"`
	UserID      string   `json:"userId"`
	// DataFormat optionally requests a tabular companion export of the
	// underlying dataset: "csv", "json" or "excel". Empty means PDF only.
	DataFormat string `json:"dataFormat,omitempty"`
}

const (
	MaxDays  = 365
	MaxLimit = 500
)

var ErrInvalidRequest = errors.New("invalid report request")

// Validate applies the request limits before any upstream call or
// credit is spent.
func (r *Request) Validate() error {
	if strings.TrimSpace(r.SellerName) == "" {
		return fmt.Errorf("%w: sellerName is required", ErrInvalidRequest)
	}
	if r.Days <= 0 || r.Days > MaxDays {
		return fmt.Errorf("%w: days must be between 1 and %d", ErrInvalidRequest, MaxDays)
	}
	if r.Limit <= 0 || r.Limit > MaxLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidRequest, MaxLimit)
	}
	switch r.DataFormat {
	case "", "csv", "json", "excel":
	default:
		return fmt.Errorf("%w: unknown dataFormat %q", ErrInvalidRequest, r.DataFormat)
	}
	return nil
}

// Selection resolves the raw filter list into a FilterSelection.
func (r *Request) Selection() FilterSelection {
	return NewFilterSelection(r.Filters)
}
