package mathgen

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is an exact rational in lowest terms. Distractor uniqueness is
// checked on this canonical form, not on display strings, so "2/4" and
// "1/2" count as the same option.
type Value struct {
	Num int64
	Den int64 // always > 0
}

// NewValue builds a canonical Value, normalizing sign and reducing.
func NewValue(num, den int64) Value {
	if den == 0 {
		den = 1 // callers never produce zero denominators; keep total
	}
	if den < 0 {
		num = -num
		den = -den
	}
	g := gcd(abs(num), den)
	return Value{Num: num / g, Den: den / g}
}

// Int builds a whole-number Value.
func Int(n int64) Value {
	return Value{Num: n, Den: 1}
}

// Add returns the canonical sum.
func (v Value) Add(o Value) Value {
	return NewValue(v.Num*o.Den+o.Num*v.Den, v.Den*o.Den)
}

// IsInt reports whether the value is a whole number.
func (v Value) IsInt() bool {
	return v.Den == 1
}

// String formats the value for display: "7" or "3/4".
func (v Value) String() string {
	if v.Den == 1 {
		return strconv.FormatInt(v.Num, 10)
	}
	return fmt.Sprintf("%d/%d", v.Num, v.Den)
}

// ParseValue parses "7", "-3" or "a/b" into a canonical Value.
func ParseValue(s string) (Value, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Value{}, fmt.Errorf("empty value")
	}

	if !strings.Contains(s, "/") {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid integer: %w", err)
		}
		return Int(n), nil
	}

	parts := strings.SplitN(s, "/", 2)
	num, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return Value{}, fmt.Errorf("invalid numerator: %w", err)
	}
	den, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return Value{}, fmt.Errorf("invalid denominator: %w", err)
	}
	if den == 0 {
		return Value{}, fmt.Errorf("zero denominator")
	}
	return NewValue(num, den), nil
}

// gcd returns the greatest common divisor of a and b.
// Both a and b must be non-negative.
func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

// abs returns the absolute value of n.
func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
