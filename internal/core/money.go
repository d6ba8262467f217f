package core

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultCurrency is used when neither the report nor the config names one.
const DefaultCurrency = "₹"

// MissingAmount is shown in place of an amount that cannot be formatted.
const MissingAmount = "-"

// Formatter renders amounts with a locale's digit grouping.
type Formatter struct {
	printer  *message.Printer
	currency string
}

// NewFormatter builds a formatter for the given locale. An empty currency
// falls back to DefaultCurrency.
func NewFormatter(locale language.Tag, currency string) *Formatter {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Formatter{
		printer:  message.NewPrinter(locale),
		currency: currency,
	}
}

var defaultFormatter = NewFormatter(language.English, DefaultCurrency)

// Currency returns the symbol used when a report omits one.
func (f *Formatter) Currency() string {
	return f.currency
}

// Format renders amount as <symbol><grouped amount> with exactly two decimals.
func (f *Formatter) Format(amount Amount, symbol string) string {
	if !amount.Valid {
		return MissingAmount
	}
	if symbol == "" {
		symbol = f.currency
	}
	value := amount.Value.Round(2).InexactFloat64()
	return symbol + f.printer.Sprintf("%v", number.Decimal(value,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}

// FormatCurrency formats with English grouping, e.g. ₹1,234.50.
func FormatCurrency(amount Amount, symbol string) string {
	return defaultFormatter.Format(amount, symbol)
}

// DefaultFormatter returns the English formatter used by FormatCurrency.
func DefaultFormatter() *Formatter {
	return defaultFormatter
}
