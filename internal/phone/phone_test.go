package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAccepts10DigitMobiles(t *testing.T) {
	for _, in := range []any{"9876543210", int64(9876543210), float64(6000000001), "7000000000", "8123456789"} {
		n, err := Parse(in)
		assert.Nil(t, err, "input %v", in)
		assert.True(t, n >= 6000000000 && n <= 9999999999)
	}
}

func TestParseRejectsBadShapes(t *testing.T) {
	cases := []any{
		nil,
		"",
		"0000000000",      // leading zero
		"1234567890",      // leading 1
		"5876543210",      // leading 5
		"987654321",       // 9 digits
		"98765432101",     // 11 digits
		"98765abc10",      // non-numeric
		"-9876543210",     // negative
		int64(0),          // zero
		int64(-987654321), // negative int
		3.14,              // non-integral float
		true,              // unsupported type
	}
	for _, in := range cases {
		_, err := Parse(in)
		assert.NotNil(t, err, "input %v", in)
	}
}

func TestOptionalReturnsNilOnFailure(t *testing.T) {
	assert.Nil(t, Optional("not a phone"))
	assert.Nil(t, Optional(nil))

	n := Optional("9876543210")
	if assert.NotNil(t, n) {
		assert.Equal(t, int64(9876543210), *n)
	}
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("6543210987"))
	assert.False(t, IsValid("0000000000"))
	assert.False(t, IsValid("12345"))
}

func TestFormatBuckets(t *testing.T) {
	assert.Equal(t, "98765 43210", Format(9876543210))
	assert.Equal(t, "+1 23456 78901", Format(11234567890)) // 11 digits, leading 1
	assert.Equal(t, "+91 98765 43210", Format(919876543210))
	// 11 digits without a leading 1 falls into the generic branch.
	assert.Equal(t, "+9 88765 43210", Format(98876543210))
	// Short numbers pass through unchanged.
	assert.Equal(t, "12345", Format(12345))
}

func TestFormatParseRoundTrip(t *testing.T) {
	n, err := Parse("9876543210")
	assert.Nil(t, err)

	display := Format(n)
	back, err := ParseFormatted(display)
	assert.Nil(t, err)
	assert.Equal(t, n, back)
	assert.Equal(t, display, Format(back))
}

func TestParseFormattedStripsPunctuation(t *testing.T) {
	n, err := ParseFormatted("(98765) 432-10")
	assert.Nil(t, err)
	assert.Equal(t, int64(9876543210), n)

	// A formatted international number has 12 digits and fails the
	// strict parser again.
	_, err = ParseFormatted("+91 98765 43210")
	assert.NotNil(t, err)
}
