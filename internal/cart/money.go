package cart

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

// Money is a currency amount in cents. Totals stay exact because they are
// integer sums; rendering is always two decimal places.
type Money int64

// Cents returns the raw cent amount.
func (m Money) Cents() int64 { return int64(m) }

// String renders the amount the way the site shows prices, e.g. "$120.00".
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s$%d.%02d", sign, v/100, v%100)
}

// MarshalJSON writes a plain decimal number so the persisted cart record
// stays readable by the site's original consumers, which stored dollar
// floats.
func (m Money) MarshalJSON() ([]byte, error) {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return []byte(fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)), nil
}

// UnmarshalJSON accepts any JSON number (or quoted number) of dollars and
// rounds to the nearest cent.
func (m *Money) UnmarshalJSON(data []byte) error {
	raw := string(bytes.Trim(data, `"`))
	dollars, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("cart: malformed price %q: %w", raw, err)
	}
	if math.IsNaN(dollars) || math.IsInf(dollars, 0) {
		return fmt.Errorf("cart: malformed price %q: not a finite number", raw)
	}
	*m = Money(math.Round(dollars * 100))
	return nil
}
