// Package dump parses legacy SQL dump text into an in-memory table map. The
// grammar is the narrow INSERT-statement subset the legacy export emits;
// anything outside it (DDL, comments, session settings) is skipped.
package dump

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Row is one tuple keyed by column name. Values are nil, string, int64 or
// float64 as produced by the value scanner.
type Row map[string]any

// Has reports whether the column is present and non-NULL.
func (r Row) Has(col string) bool {
	v, ok := r[col]
	return ok && v != nil
}

// String coerces the column into text. NULL and missing columns come back
// empty; numbers are formatted.
func (r Row) String(col string) string {
	switch v := r[col].(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// Int coerces the column into an integer. Floats truncate; unparsable text,
// NULL and missing columns come back 0.
func (r Row) Int(col string) int64 {
	switch v := r[col].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// Float coerces the column into a float. Unparsable text, NULL and missing
// columns come back 0.
func (r Row) Float(col string) float64 {
	switch v := r[col].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Table is the merged row collection for one legacy table, accumulated across
// every INSERT statement naming it, in source order.
type Table struct {
	Name    string
	Columns []string
	Rows    []Row
	// Dropped counts tuples discarded because their value count did not
	// match the statement's column count.
	Dropped int
}

// Require returns an error naming every column the table is missing. Phases
// call it up front so a reshaped legacy export fails loudly instead of
// reading zero values.
func (t *Table) Require(cols ...string) error {
	if t == nil {
		return nil
	}
	present := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		present[c] = true
	}
	var missing []string
	for _, c := range cols {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("table %s missing columns %s", t.Name, strings.Join(missing, ", "))
	}
	return nil
}

// Dump is the parse result: one Table per legacy table that had at least one
// INSERT statement.
type Dump struct {
	Tables map[string]*Table
}

// Table returns the named table, or nil when the dump has no rows for it.
func (d *Dump) Table(name string) *Table {
	return d.Tables[name]
}

// TablesWithPrefix returns every table whose name starts with prefix, sorted
// by name. Used for the year-suffixed attendee tables.
func (d *Dump) TablesWithPrefix(prefix string) []*Table {
	var out []*Table
	for name, t := range d.Tables {
		if strings.HasPrefix(name, prefix) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// DroppedTuples reports per-table counts of discarded tuples, for the
// orchestrator's warning log.
func (d *Dump) DroppedTuples() map[string]int {
	out := make(map[string]int)
	for name, t := range d.Tables {
		if t.Dropped > 0 {
			out[name] = t.Dropped
		}
	}
	return out
}

const insertMarker = "INSERT INTO"

// Parse scans the dump text for INSERT statements and returns the merged
// per-table rows. Malformed statements are skipped; tuples whose value count
// does not match the column list are dropped and counted on their table.
func Parse(text string) *Dump {
	d := &Dump{Tables: make(map[string]*Table)}
	upper := asciiUpper(text)
	i := 0
	for {
		at := strings.Index(upper[i:], insertMarker)
		if at < 0 {
			break
		}
		i += at + len(insertMarker)

		name, j, ok := scanIdentifier(text, i)
		if !ok {
			continue
		}
		i = j

		cols, j, ok := scanColumnList(text, i)
		if !ok {
			continue
		}
		i = j

		j = skipSpaces(text, i)
		if !strings.HasPrefix(upper[j:], "VALUES") {
			continue
		}
		i = j + len("VALUES")

		table := d.tableFor(name, cols)
		for {
			i = skipSpaces(text, i)
			for i < len(text) && text[i] == ',' {
				i = skipSpaces(text, i+1)
			}
			if i >= len(text) || text[i] != '(' {
				break
			}
			values, next := scanTuple(text, i+1)
			i = next
			if len(values) != len(cols) {
				table.Dropped++
				continue
			}
			row := make(Row, len(cols))
			for k, col := range cols {
				row[col] = values[k]
			}
			table.Rows = append(table.Rows, row)
		}
	}
	return d
}

// asciiUpper uppercases a-z only, keeping byte offsets aligned with the
// original text (strings.ToUpper can change the length of non-ASCII runes).
func asciiUpper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

func (d *Dump) tableFor(name string, cols []string) *Table {
	if t, ok := d.Tables[name]; ok {
		return t
	}
	t := &Table{Name: name, Columns: cols}
	d.Tables[name] = t
	return t
}

// scanIdentifier reads a backtick-quoted or bare table name.
func scanIdentifier(text string, i int) (string, int, bool) {
	i = skipSpaces(text, i)
	n := len(text)
	if i >= n {
		return "", i, false
	}
	if text[i] == '`' {
		end := strings.IndexByte(text[i+1:], '`')
		if end < 0 {
			return "", i, false
		}
		return text[i+1 : i+1+end], i + end + 2, true
	}
	start := i
	for i < n && text[i] != '(' && !isSpace(text[i]) {
		i++
	}
	if i == start {
		return "", i, false
	}
	return text[start:i], i, true
}

// scanColumnList reads the parenthesized column list, trimming backticks and
// whitespace from each identifier.
func scanColumnList(text string, i int) ([]string, int, bool) {
	i = skipSpaces(text, i)
	if i >= len(text) || text[i] != '(' {
		return nil, i, false
	}
	end := strings.IndexByte(text[i:], ')')
	if end < 0 {
		return nil, i, false
	}
	inner := text[i+1 : i+end]
	parts := strings.Split(inner, ",")
	cols := make([]string, 0, len(parts))
	for _, p := range parts {
		col := strings.Trim(strings.TrimSpace(p), "`")
		if col != "" {
			cols = append(cols, col)
		}
	}
	if len(cols) == 0 {
		return nil, i, false
	}
	return cols, i + end + 1, true
}

func skipSpaces(text string, i int) int {
	for i < len(text) && isSpace(text[i]) {
		i++
	}
	return i
}
