package crud

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"chickstage-backend-go/internal/records"
)

const (
	dateLayout      = "2006-01-02"
	dateTimeLayout  = "2006-01-02T15:04"
	dateTimeSeconds = "2006-01-02T15:04:05"
)

// FormState holds the text value of every input in a manager's dialog.
type FormState map[string]string

func (f FormState) Clone() FormState {
	out := make(FormState, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// ToFormFields copies a stored record into input text. Empty values take the
// field's form default.
func ToFormFields(schema Schema, rec records.Record) FormState {
	form := make(FormState, len(schema.Fields))
	for _, f := range schema.Fields {
		text := inputText(f.Kind, rec[f.Name])
		if text == "" {
			text = f.Default
		}
		form[f.Name] = text
	}
	return form
}

// ToRecord builds the full write payload from the form. Optional fields left
// empty become nil, or their Fallback when one is declared. Numbers and dates
// that do not parse are stored as nil.
func ToRecord(schema Schema, form FormState) records.Record {
	rec := make(records.Record, len(schema.Fields))
	for _, f := range schema.Fields {
		raw := form[f.Name]
		if raw == "" {
			switch {
			case f.Fallback != "":
				rec[f.Name] = storedValue(f.Kind, f.Fallback)
			case f.Required:
				rec[f.Name] = raw
			default:
				rec[f.Name] = nil
			}
			continue
		}
		rec[f.Name] = storedValue(f.Kind, raw)
	}
	return rec
}

// MissingRequired lists required fields with no input. Presence is the only
// check: whitespace counts as a value, as with the HTML required attribute.
func MissingRequired(schema Schema, form FormState) []Field {
	var missing []Field
	for _, f := range schema.Fields {
		if f.Required && form[f.Name] == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

func storedValue(kind Kind, raw string) any {
	switch kind {
	case KindInt:
		n, ok := leadingInt(raw)
		if !ok {
			return nil
		}
		return n
	case KindDecimal:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return nil
		}
		return n
	case KindDate:
		t, err := time.Parse(dateLayout, strings.TrimSpace(raw))
		if err != nil {
			return nil
		}
		return t
	case KindDateTime:
		t, ok := parseDateTime(strings.TrimSpace(raw))
		if !ok {
			return nil
		}
		return t
	}
	return raw
}

// leadingInt reads the optional sign and digits at the start of raw and
// ignores the rest, so "5.5" is 5.
func leadingInt(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	end := 0
	if end < len(raw) && (raw[end] == '-' || raw[end] == '+') {
		end++
	}
	digits := end
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.ParseInt(raw[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseDateTime(raw string) (time.Time, bool) {
	for _, layout := range []string{dateTimeLayout, dateTimeSeconds, time.RFC3339Nano} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func inputText(kind Kind, value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return stringInputText(kind, v)
	case []byte:
		return stringInputText(kind, string(v))
	case time.Time:
		if kind == KindDateTime {
			return v.UTC().Format(dateTimeLayout)
		}
		return v.UTC().Format(dateLayout)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		if kind == KindInt && v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(v)
	}
	return fmt.Sprint(value)
}

// stringInputText trims timestamps received as text down to what date and
// datetime-local inputs accept.
func stringInputText(kind Kind, v string) string {
	switch kind {
	case KindDate:
		if len(v) >= len(dateLayout) {
			if _, err := time.Parse(dateLayout, v[:len(dateLayout)]); err == nil {
				return v[:len(dateLayout)]
			}
		}
	case KindDateTime:
		if t, ok := parseDateTime(v); ok {
			return t.Format(dateTimeLayout)
		}
	}
	return v
}
