package parser

import (
	"errors"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// decodeString returns the cooked value of a quoted string literal
func decodeString(raw string) string {
	if len(raw) >= 2 {
		q := raw[0]
		if (q == '"' || q == '\'') && raw[len(raw)-1] == q {
			raw = raw[1 : len(raw)-1]
		}
	}
	return decodeEscapes(raw)
}

// decodeEscapes resolves JavaScript escape sequences. Malformed escapes are
// kept as the escaped character.
func decodeEscapes(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case '0':
			if i+1 < len(s) && isDigit(s[i+1]) {
				sb.WriteByte('0')
			} else {
				sb.WriteByte(0)
			}
		case '\n':
			// line continuation
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		case 'x':
			if r, ok := parseHex(s, i+1, 2); ok {
				sb.WriteRune(r)
				i += 2
			} else {
				sb.WriteByte('x')
			}
		case 'u':
			r, n := decodeUnicodeEscape(s, i+1)
			if n == 0 {
				sb.WriteByte('u')
				continue
			}
			i += n
			if utf16.IsSurrogate(r) && i+2 < len(s) && s[i+1] == '\\' && s[i+2] == 'u' {
				if r2, n2 := decodeUnicodeEscape(s, i+3); n2 > 0 {
					if pair := utf16.DecodeRune(r, r2); pair != utf8.RuneError {
						sb.WriteRune(pair)
						i += 2 + n2
						continue
					}
				}
			}
			sb.WriteRune(r)
		default:
			// \' \" \\ and identity escapes
			r, size := utf8.DecodeRuneInString(s[i:])
			sb.WriteRune(r)
			i += size - 1
		}
	}
	return sb.String()
}

// decodeUnicodeEscape parses the digits of \uXXXX or \u{X...} starting at
// pos and returns the rune and the number of bytes consumed
func decodeUnicodeEscape(s string, pos int) (rune, int) {
	if pos < len(s) && s[pos] == '{' {
		end := strings.IndexByte(s[pos:], '}')
		if end < 2 {
			return 0, 0
		}
		v, err := strconv.ParseUint(s[pos+1:pos+end], 16, 32)
		if err != nil || v > utf8.MaxRune {
			return 0, 0
		}
		return rune(v), end + 1
	}
	if r, ok := parseHex(s, pos, 4); ok {
		return r, 4
	}
	return 0, 0
}

func parseHex(s string, pos, n int) (rune, bool) {
	if pos+n > len(s) {
		return 0, false
	}
	v, err := strconv.ParseUint(s[pos:pos+n], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// parseNumber returns the numeric value of a number literal as float64.
// BigInt literals are returned as a decimal string.
func parseNumber(raw string) any {
	s := strings.ReplaceAll(raw, "_", "")
	if strings.HasSuffix(s, "n") {
		digits := strings.TrimSuffix(s, "n")
		if v, ok := new(big.Int).SetString(digits, 0); ok {
			return v.String()
		}
		return digits
	}
	if legacyOctal(s) {
		if v, err := strconv.ParseInt(s[1:], 8, 64); err == nil {
			return float64(v)
		}
	}
	if v, err := strconv.ParseInt(s, 0, 64); err == nil {
		return float64(v)
	}
	if v, err := strconv.ParseUint(s, 0, 64); err == nil {
		return float64(v)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err == nil || errors.Is(err, strconv.ErrRange) {
		return f
	}
	return nil
}

// legacyOctal matches sloppy-mode octal literals such as 0777
func legacyOctal(s string) bool {
	if len(s) < 2 || s[0] != '0' {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] < '0' || s[i] > '7' {
			return false
		}
	}
	return true
}
