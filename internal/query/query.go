// Package query evaluates filter, sort, and pagination parameters against an
// employee snapshot. It is pure: every call works over the records it is
// given and owns no state, so concurrent evaluations need no locking.
package query

import "github.com/staffdir/staffdir-backend/internal/model"

// Operator names match the wire values the filter UI sends.
type Operator string

const (
	OpEquals     Operator = "equals"
	OpContains   Operator = "contains"
	OpStartsWith Operator = "startsWith"
	OpEndsWith   Operator = "endsWith"
	OpGt         Operator = ">"
	OpLt         Operator = "<"
	OpGte        Operator = ">="
	OpLte        Operator = "<="
)

// Combinator reduces the results of a condition set.
type Combinator string

const (
	CombinatorAnd Combinator = "AND"
	CombinatorOr  Combinator = "OR"
)

// Condition is a single field/operator/value predicate.
type Condition struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    string   `json:"value"`
}

// Sort selects a field and direction. A nil Sort preserves input order.
type Sort struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending"`
}

// Params carries one query's filter set, sort spec, and page window.
type Params struct {
	Conditions []Condition
	Combinator Combinator
	Sort       *Sort
	Page       int
	PageSize   int
}

// Result is one page of records plus the pre-pagination match count.
type Result struct {
	Data    []model.Employee `json:"data"`
	Total   int              `json:"total"`
	HasMore bool             `json:"hasMore"`
}

// Evaluate runs the filter -> sort -> paginate pipeline over a snapshot.
// An empty condition set bypasses filtering entirely; this is a deliberate
// short-circuit, not a property of the combinators (an OR over zero
// conditions would otherwise match nothing).
func Evaluate(records []model.Employee, p Params) Result {
	matched := records
	if len(p.Conditions) > 0 {
		matched = Filter(records, p.Conditions, p.Combinator)
	}

	if p.Sort != nil {
		matched = Sorted(matched, *p.Sort)
	}

	page, total, hasMore := Paginate(matched, p.Page, p.PageSize)
	return Result{Data: page, Total: total, HasMore: hasMore}
}
