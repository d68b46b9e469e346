package parser

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeString(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`"plain"`, "plain"},
		{`'single'`, "single"},
		{`"tab\there"`, "tab\there"},
		{`"quote \" inside"`, `quote " inside`},
		{`'it\'s'`, "it's"},
		{`"back\\slash"`, `back\slash`},
		{`"\x41B\u{43}"`, "ABC"},
		{`"😀"`, "😀"},
		{`"\u{1F600}"`, "😀"},
		{`"nul\0"`, "nul\x00"},
		{"\"line\\\ncontinued\"", "linecontinued"},
		{`"bad \xZZ"`, "bad xZZ"},
		{`"bad \u12"`, "bad u12"},
		{`"identity \q"`, "identity q"},
		{`"héllo"`, "héllo"},
		{`""`, ""},
		{`unquoted`, "unquoted"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, decodeString(tt.raw), tt.raw)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want any
	}{
		{"0", float64(0)},
		{"42", float64(42)},
		{"1_000_000", float64(1000000)},
		{"3.14", 3.14},
		{".5", 0.5},
		{"1e3", float64(1000)},
		{"0x1F", float64(31)},
		{"0o17", float64(15)},
		{"0b101", float64(5)},
		{"0777", float64(511)},
		{"089", float64(89)},
		{"18446744073709551615", float64(math.MaxUint64)},
		{"123n", "123"},
		{"0x1Fn", "31"},
		{"0o17n", "15"},
		{"0b101n", "5"},
		{"1_000n", "1000"},
		{"123456789012345678901234567890n", "123456789012345678901234567890"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseNumber(tt.raw), tt.raw)
	}

	assert.Equal(t, math.Inf(1), parseNumber("1e400"))
	assert.Nil(t, parseNumber("not-a-number"))
}
