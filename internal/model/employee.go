package model

import (
	"math"
	"strconv"
)

// Kind tags how a field participates in comparisons: string fields use
// collated text comparison, number fields use float64 comparison.
type Kind int

const (
	KindString Kind = iota
	KindNumber
)

// Employee is a single directory record. Values are immutable for the
// duration of a query; the query engine works on snapshot copies.
type Employee struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Department string  `json:"department"`
	Title      string  `json:"title"`
	City       string  `json:"city"`
	Age        float64 `json:"age"`
	Salary     float64 `json:"salary"`
}

// Value is a typed field value. Str is set for string fields, Num for
// number fields; Kind selects which.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
}

// String returns the string-normalized form of the value, used by the
// string operators (equals, contains, startsWith, endsWith).
func (v Value) String() string {
	if v.Kind == KindNumber {
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	}
	return v.Str
}

// Float coerces the value to a float64 for the numeric operators.
// String values that do not parse yield NaN, so every comparison against
// them is false.
func (v Value) Float() float64 {
	if v.Kind == KindNumber {
		return v.Num
	}
	f, err := strconv.ParseFloat(v.Str, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// FieldSpec describes one queryable field.
type FieldSpec struct {
	Name string `json:"name"`
	Kind Kind   `json:"-"`
	Type string `json:"type"` // "string" or "number", for API consumers
}

// Schema lists the permitted field names in a fixed order. Filters and
// sorts may only address these names; anything else resolves as absent.
func Schema() []FieldSpec {
	return []FieldSpec{
		{Name: "id", Kind: KindString, Type: "string"},
		{Name: "name", Kind: KindString, Type: "string"},
		{Name: "email", Kind: KindString, Type: "string"},
		{Name: "department", Kind: KindString, Type: "string"},
		{Name: "title", Kind: KindString, Type: "string"},
		{Name: "city", Kind: KindString, Type: "string"},
		{Name: "age", Kind: KindNumber, Type: "number"},
		{Name: "salary", Kind: KindNumber, Type: "number"},
	}
}

// FieldKind reports the declared kind for a field name.
func FieldKind(name string) (Kind, bool) {
	switch name {
	case "id", "name", "email", "department", "title", "city":
		return KindString, true
	case "age", "salary":
		return KindNumber, true
	default:
		return 0, false
	}
}

// Field resolves a field by name. The second return is false for names
// outside the schema, which the query engine treats as an absent value.
func (e Employee) Field(name string) (Value, bool) {
	switch name {
	case "id":
		return Value{Kind: KindString, Str: e.ID}, true
	case "name":
		return Value{Kind: KindString, Str: e.Name}, true
	case "email":
		return Value{Kind: KindString, Str: e.Email}, true
	case "department":
		return Value{Kind: KindString, Str: e.Department}, true
	case "title":
		return Value{Kind: KindString, Str: e.Title}, true
	case "city":
		return Value{Kind: KindString, Str: e.City}, true
	case "age":
		return Value{Kind: KindNumber, Num: e.Age}, true
	case "salary":
		return Value{Kind: KindNumber, Num: e.Salary}, true
	default:
		return Value{}, false
	}
}
