package core

import (
	"bytes"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// AnalysisResult is the fee report returned by the analysis service.
type AnalysisResult struct {
	Summary    Summary         `json:"summary"`
	ByCategory []CategoryTotal `json:"by_category"`
	Matches    []Match         `json:"matches"`
}

// Summary aggregates every detected fee in the statement.
type Summary struct {
	TotalFee   Amount `json:"total_fee"`
	Currency   string `json:"currency"`
	TotalCount Count  `json:"total_count"`
	StartDate  string `json:"start_date,omitempty"`
	EndDate    string `json:"end_date,omitempty"`
}

// HasPeriod reports whether both ends of the statement period are known.
func (s Summary) HasPeriod() bool {
	return s.StartDate != "" && s.EndDate != ""
}

// CategoryTotal is one row of the per-category breakdown.
type CategoryTotal struct {
	Category string `json:"category"`
	Amount   Amount `json:"amount"`
	Count    Count  `json:"count"`
}

// Match is a single statement line the service classified as a fee.
type Match struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      Amount `json:"amount"`
	Category    string `json:"category"`
}

// Amount is a monetary value that may be absent or unusable.
// JSON null, a missing field, or a non-numeric value decode as invalid and
// render as a placeholder rather than failing the whole report.
type Amount struct {
	Value decimal.Decimal
	Valid bool
}

// NewAmount returns a valid Amount for the given value.
func NewAmount(value decimal.Decimal) Amount {
	return Amount{Value: value, Valid: true}
}

// AmountFromFloat converts f, treating NaN and infinities as invalid.
func AmountFromFloat(f float64) Amount {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Amount{}
	}
	return NewAmount(decimal.NewFromFloat(f))
}

// UnmarshalJSON accepts numbers and numeric strings.
func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := string(bytes.TrimSpace(data))
	if raw == "null" || raw == "" {
		*a = Amount{}
		return nil
	}
	raw = strings.TrimSpace(strings.Trim(raw, `"`))
	value, err := decimal.NewFromString(raw)
	if err != nil {
		*a = Amount{}
		return nil
	}
	*a = NewAmount(value)
	return nil
}

// MarshalJSON writes a bare number, or null when invalid.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return []byte(a.Value.String()), nil
}

// Equal compares validity and numeric value, ignoring representation.
func (a Amount) Equal(other Amount) bool {
	if a.Valid != other.Valid {
		return false
	}
	return !a.Valid || a.Value.Equal(other.Value)
}

// Count is an occurrence tally. Like Amount it decodes leniently: integral
// floats and numeric strings are accepted, fractions are truncated, and
// null or non-numeric values decode as zero.
type Count int

// Int returns the count as a plain int.
func (c Count) Int() int {
	return int(c)
}

// UnmarshalJSON accepts numbers and numeric strings.
func (c *Count) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(strings.Trim(string(bytes.TrimSpace(data)), `"`))
	value, err := decimal.NewFromString(raw)
	if err != nil {
		*c = 0
		return nil
	}
	*c = Count(value.IntPart())
	return nil
}
