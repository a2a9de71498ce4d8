// Package phone validates and formats Indian mobile numbers. A valid
// number is exactly 10 digits, starts with 6-9, and is stored as a
// positive integer.
package phone

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse converts a loosely-typed input (number or string) into a
// canonical 10-digit mobile number. It fails on anything that is not a
// positive integer of the right shape.
func Parse(v any) (int64, error) {
	n, err := toInt(v)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("phone number must be a positive number")
	}
	digits := strconv.FormatInt(n, 10)
	if len(digits) != 10 {
		return 0, fmt.Errorf("phone number must be exactly 10 digits")
	}
	switch digits[0] {
	case '6', '7', '8', '9':
		return n, nil
	}
	return 0, fmt.Errorf("phone number must start with 6, 7, 8 or 9")
}

// Optional is the forgiving variant: invalid input yields nil instead
// of an error.
func Optional(v any) *int64 {
	n, err := Parse(v)
	if err != nil {
		return nil
	}
	return &n
}

// IsValid reports whether Parse would accept the input.
func IsValid(v any) bool {
	_, err := Parse(v)
	return err == nil
}

// Format renders a number for display. 10 digits become the grouped
// national form, 11 digits with a leading 1 the country-coded form,
// anything longer a generic international form. Other lengths pass
// through unchanged. Note this is deliberately more permissive than
// Parse: an 11-digit number that never came from Parse still gets the
// international rendering.
func Format(n int64) string {
	d := strconv.FormatInt(n, 10)
	switch {
	case len(d) == 10:
		return d[:5] + " " + d[5:]
	case len(d) == 11 && d[0] == '1':
		return "+1 " + d[1:6] + " " + d[6:]
	case len(d) > 10:
		cut := len(d) - 10
		return "+" + d[:cut] + " " + d[cut:cut+5] + " " + d[cut+5:]
	default:
		return d
	}
}

// ParseFormatted strips every non-digit character from a display string
// and re-validates the result through Parse.
func ParseFormatted(s string) (int64, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	return Parse(digits)
}

func toInt(v any) (int64, error) {
	switch x := v.(type) {
	case nil:
		return 0, fmt.Errorf("phone number is required")
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case uint64:
		return int64(x), nil
	case float64:
		// JSON numbers arrive as float64.
		if x != float64(int64(x)) {
			return 0, fmt.Errorf("phone number must be a whole number")
		}
		return int64(x), nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, fmt.Errorf("phone number is required")
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("phone number must be numeric")
		}
		return n, nil
	default:
		return 0, fmt.Errorf("phone number must be a number or numeric string")
	}
}
