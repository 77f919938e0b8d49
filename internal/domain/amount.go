package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FracUnit is the number of rao in one TAO. Rao is the smallest transferable
// unit on the network, so every amount is exact at 9 decimal places.
const FracUnit int64 = 1_000_000_000

// Amount is a TAO value held as a count of rao base units. Keeping amounts in
// integer base units avoids float drift when summing large recipient lists.
type Amount int64

// NewAmount returns an Amount holding the given number of rao.
func NewAmount(rao int64) Amount {
	return Amount(rao)
}

// ParseAmount parses a decimal TAO string such as "10.5" or "0.000000001".
// At most 9 fractional digits are accepted. Exponent notation falls back to
// float parsing with rounding at the rao scale.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	if strings.ContainsAny(s, "eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		return FromFloat(f), nil
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	wholePart, fracPart, _ := strings.Cut(s, ".")
	if wholePart == "" && fracPart == "" {
		return 0, fmt.Errorf("invalid amount %q", s)
	}

	var whole int64
	if wholePart != "" {
		w, err := strconv.ParseInt(wholePart, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		whole = w
	}

	var frac int64
	if fracPart != "" {
		if len(fracPart) > 9 {
			return 0, fmt.Errorf("amount %q has more than 9 decimal places", s)
		}
		f, err := strconv.ParseInt(fracPart, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		for i := len(fracPart); i < 9; i++ {
			f *= 10
		}
		frac = f
	}

	if whole > (math.MaxInt64-frac)/FracUnit {
		return 0, fmt.Errorf("amount %q overflows", s)
	}
	rao := whole*FracUnit + frac
	if neg {
		rao = -rao
	}
	return Amount(rao), nil
}

// FromFloat converts a TAO float to an Amount, rounding to the nearest rao.
func FromFloat(tao float64) Amount {
	return Amount(math.Round(tao * float64(FracUnit)))
}

// Rao returns the value in rao base units.
func (a Amount) Rao() int64 { return int64(a) }

// Tao returns the value as a float. For display and logging only; arithmetic
// stays on the integer representation.
func (a Amount) Tao() float64 { return float64(a) / float64(FracUnit) }

// Add returns a + b.
func (a Amount) Add(b Amount) Amount { return a + b }

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount { return a - b }

// MulInt returns the amount multiplied by n.
func (a Amount) MulInt(n int) Amount { return a * Amount(n) }

// Percent returns pct percent of the amount, rounded to the nearest rao.
func (a Amount) Percent(pct float64) Amount {
	return Amount(math.Round(float64(a) * pct / 100))
}

// Cmp returns 1 if a is larger than b, -1 if smaller, 0 if equal.
func (a Amount) Cmp(b Amount) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

// IsPositive returns true if the value is greater than zero.
func (a Amount) IsPositive() bool { return a > 0 }

// IsZero returns true if the value is zero.
func (a Amount) IsZero() bool { return a == 0 }

// Format renders the value with a fixed number of decimal places (0..9),
// rounding half away from zero at the display precision.
func (a Amount) Format(decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	if decimals > 9 {
		decimals = 9
	}

	v := int64(a)
	neg := v < 0
	if neg {
		v = -v
	}

	scale := int64(1)
	for i := 0; i < 9-decimals; i++ {
		scale *= 10
	}
	v = (v + scale/2) / scale

	den := int64(1)
	for i := 0; i < decimals; i++ {
		den *= 10
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(strconv.FormatInt(v/den, 10))
	if decimals > 0 {
		frac := strconv.FormatInt(v%den, 10)
		b.WriteByte('.')
		b.WriteString(strings.Repeat("0", decimals-len(frac)))
		b.WriteString(frac)
	}
	return b.String()
}

// String renders the value with trailing zeros removed, e.g. "15.045".
func (a Amount) String() string {
	s := a.Format(9)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
