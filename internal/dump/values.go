package dump

import (
	"strconv"
	"strings"
)

// scanTuple consumes one parenthesized value list. i must point just past the
// opening parenthesis. It returns the scalars in order and the index just past
// the closing parenthesis. Scalars are nil (NULL), string, int64 or float64;
// unquoted keywords such as DEFAULT come back as trimmed strings.
func scanTuple(text string, i int) ([]any, int) {
	var values []any
	n := len(text)
	for i < n {
		for i < n && (text[i] == ',' || isSpace(text[i])) {
			i++
		}
		if i >= n {
			break
		}
		if text[i] == ')' {
			return values, i + 1
		}
		var v any
		v, i = scanValue(text, i)
		values = append(values, v)
	}
	return values, i
}

func scanValue(text string, i int) (any, int) {
	n := len(text)
	switch c := text[i]; {
	case i+4 <= n && strings.EqualFold(text[i:i+4], "NULL"):
		return nil, i + 4
	case c == '\'':
		return scanQuoted(text, i+1)
	case c == '-' || c == '.' || (c >= '0' && c <= '9'):
		return scanNumber(text, i)
	default:
		return scanBare(text, i)
	}
}

// scanQuoted reads a single-quoted string starting just past the opening
// quote, handling backslash escapes and the doubled-quote form.
func scanQuoted(text string, i int) (string, int) {
	var b strings.Builder
	n := len(text)
	for i < n {
		c := text[i]
		switch {
		case c == '\\' && i+1 < n:
			next := text[i+1]
			switch next {
			case '\'', '"', '\\':
				b.WriteByte(next)
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case '0':
				b.WriteByte(0)
			default:
				b.WriteByte(next)
			}
			i += 2
		case c == '\'':
			if i+1 < n && text[i+1] == '\'' {
				b.WriteByte('\'')
				i += 2
				continue
			}
			return b.String(), i + 1
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), i
}

// scanNumber greedily consumes a leading minus, digits and dots. A dot in the
// captured text makes it a float, otherwise an integer; text that fails to
// parse becomes 0 rather than an error.
func scanNumber(text string, i int) (any, int) {
	start := i
	n := len(text)
	if text[i] == '-' {
		i++
	}
	for i < n && (text[i] == '.' || (text[i] >= '0' && text[i] <= '9')) {
		i++
	}
	raw := text[start:i]
	if strings.Contains(raw, ".") {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return float64(0), i
		}
		return f, i
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return int64(0), i
	}
	return v, i
}

// scanBare captures an unquoted token verbatim up to the next comma or
// closing parenthesis.
func scanBare(text string, i int) (string, int) {
	start := i
	n := len(text)
	for i < n && text[i] != ',' && text[i] != ')' {
		i++
	}
	return strings.TrimSpace(text[start:i]), i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
