package crud

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"chickstage-backend-go/internal/records"
)

const notAvailable = "N/A"

type Row struct {
	ID    string
	Cells []string
}

type Table struct {
	Headers []string
	Rows    []Row
}

// BuildTable renders the schema's display columns for every record. now is
// the reference time for age columns.
func BuildTable(schema Schema, items []records.Record, now time.Time) Table {
	table := Table{Headers: make([]string, 0, len(schema.Columns)), Rows: make([]Row, 0, len(items))}
	for _, col := range schema.Columns {
		table.Headers = append(table.Headers, col.Header)
	}
	for _, item := range items {
		row := Row{ID: item.ID(), Cells: make([]string, 0, len(schema.Columns))}
		for _, col := range schema.Columns {
			row.Cells = append(row.Cells, FormatCell(col, item, now))
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func FormatCell(col Column, rec records.Record, now time.Time) string {
	empty := notAvailable
	if col.Empty != "" {
		empty = col.Empty
	}
	value := rec[col.Field]
	switch col.Format {
	case FormatDate:
		if t, ok := asTime(value); ok {
			return t.Format("1/2/2006")
		}
		return empty
	case FormatDateTime:
		if t, ok := asTime(value); ok {
			return t.Format("1/2/2006, 3:04:05 PM")
		}
		return empty
	case FormatPrice:
		n, ok := asFloat(value)
		if !ok || n == 0 {
			return empty
		}
		return fmt.Sprintf("%s %s", displayText(rec[col.Ref]), strconv.FormatFloat(n, 'f', -1, 64))
	case FormatYears:
		n, ok := asFloat(value)
		if !ok || n == 0 {
			return empty
		}
		return fmt.Sprintf("%s years", strconv.FormatFloat(n, 'f', -1, 64))
	case FormatAge:
		start, ok := asTime(value)
		if !ok {
			return empty
		}
		return fmt.Sprintf("%d days", AgeInDays(start, now))
	}
	if text := displayText(value); text != "" {
		return text
	}
	return empty
}

// AgeInDays is the whole number of days between start and now, rounded up.
func AgeInDays(start, now time.Time) int {
	diff := now.Sub(start)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(diff.Hours() / 24))
}

func displayText(value any) string {
	if t, ok := value.(time.Time); ok {
		return t.Format("1/2/2006")
	}
	return inputText(KindText, value)
}

func asTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, !v.IsZero()
	case string:
		if t, ok := parseDateTime(v); ok {
			return t, true
		}
		if t, err := time.Parse(dateLayout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(v, 64)
		return n, err == nil
	}
	return 0, false
}
