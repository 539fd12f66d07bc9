package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCurrencyTiers(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   string
	}{
		{"plain thousands", 5_000, "Rs 5,000"},
		{"lakh boundary", 100_000, "Rs 1.00 L"},
		{"lakhs", 250_000, "Rs 2.50 L"},
		{"just under a lakh", 99_999, "Rs 99,999"},
		{"crore boundary", 10_000_000, "Rs 1.00 Cr"},
		{"crores", 120_000_000, "Rs 12.00 Cr"},
		{"zero", 0, "Rs 0"},
		{"fractional lakhs", 1_23_456, "Rs 1.23 L"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Currency(tt.amount))
		})
	}
}

func TestGroupInt(t *testing.T) {
	assert.Equal(t, "0", GroupInt(0))
	assert.Equal(t, "999", GroupInt(999))
	assert.Equal(t, "1,000", GroupInt(1000))
	assert.Equal(t, "1,234,567", GroupInt(1234567))
	assert.Equal(t, "-42,000", GroupInt(-42000))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "75.0%", Percent(0.75))
	assert.Equal(t, "0.0%", Percent(0))
	assert.Equal(t, "100.0%", Percent(1))
}

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"smart quotes and dash", "₹ 1,000 – “demo”", `1,000 - "demo"`},
		{"collapse whitespace", "a  b\t c\n d", "a b c d"},
		{"nbsp", "a b", "a b"},
		{"strip non ascii", "Delhi विभाग Dept", "Delhi Dept"},
		{"trim", "  hello  ", "hello"},
		{"empty", "", ""},
		{"control chars", "a\x01b", "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "exactly10!", Truncate("exactly10!", 10))
	assert.Equal(t, "a long ...", Truncate("a long label indeed", 10))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
}

func TestDate(t *testing.T) {
	ts := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "15 Mar 2026", Date(ts))
	assert.Equal(t, "15 Mar 2026, 02:30 PM", DateTime(ts))
}
