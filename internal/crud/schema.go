// Package crud implements the list / dialog / submit / refresh pattern shared
// by every admin manager. A manager is configured with a Schema; nothing in
// this package knows about a particular collection.
package crud

import "strings"

// Kind controls how a field is rendered as an input and coerced between its
// text form and its stored value.
type Kind int

const (
	KindText Kind = iota
	KindLongText
	KindURL
	KindInt
	KindDecimal
	KindDate
	KindDateTime
	KindEnum
)

// InputType is the HTML input type used for the kind.
func (k Kind) InputType() string {
	switch k {
	case KindURL:
		return "url"
	case KindInt, KindDecimal:
		return "number"
	case KindDate:
		return "date"
	case KindDateTime:
		return "datetime-local"
	}
	return "text"
}

// InputStep is the step attribute of number inputs: whole numbers for ints.
func (k Kind) InputStep() string {
	switch k {
	case KindInt:
		return "1"
	case KindDecimal:
		return "any"
	}
	return ""
}

type Option struct {
	Value string
	Label string
}

type Field struct {
	Name        string
	Label       string
	Kind        Kind
	Required    bool
	Options     []Option
	Placeholder string
	// Default is the value the form starts from after ResetForm.
	Default string
	// Fallback is stored instead of null when the field is submitted empty.
	Fallback string
}

// Format selects how a column value is displayed in the table.
type Format int

const (
	FormatText Format = iota
	FormatBadge
	FormatDate
	FormatDateTime
	FormatPrice
	FormatYears
	FormatAge
)

type Column struct {
	Header string
	Field  string
	Format Format
	// Ref names a second field the format needs (the currency of a price).
	Ref string
	// Empty replaces N/A for missing values.
	Empty string
}

// Schema is the declarative configuration of one manager.
type Schema struct {
	// Key is the URL segment of the admin tab and API collection.
	Key         string
	Collection  string
	Entity      string
	Plural      string
	Title       string
	Description string
	Fields      []Field
	Columns     []Column
	ReadOnly    bool
}

func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// DefaultForm returns the declared initial values of every field.
func (s Schema) DefaultForm() FormState {
	form := make(FormState, len(s.Fields))
	for _, f := range s.Fields {
		form[f.Name] = f.Default
	}
	return form
}

func (s Schema) noun() string {
	return strings.ToLower(s.Entity)
}
