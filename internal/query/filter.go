package query

import (
	"math"
	"strconv"
	"strings"

	"github.com/staffdir/staffdir-backend/internal/model"
)

// Matches tests one condition against one record. A field outside the
// schema resolves as absent and fails the condition regardless of operator,
// as does an operator the engine does not know.
func Matches(e model.Employee, c Condition) bool {
	v, ok := e.Field(c.Field)
	if !ok {
		return false
	}

	switch c.Operator {
	case OpEquals:
		return strings.EqualFold(v.String(), c.Value)
	case OpContains:
		return strings.Contains(strings.ToLower(v.String()), strings.ToLower(c.Value))
	case OpStartsWith:
		return strings.HasPrefix(strings.ToLower(v.String()), strings.ToLower(c.Value))
	case OpEndsWith:
		return strings.HasSuffix(strings.ToLower(v.String()), strings.ToLower(c.Value))
	case OpGt:
		return v.Float() > toFloat(c.Value)
	case OpLt:
		return v.Float() < toFloat(c.Value)
	case OpGte:
		return v.Float() >= toFloat(c.Value)
	case OpLte:
		return v.Float() <= toFloat(c.Value)
	default:
		return false
	}
}

// toFloat coerces a condition value for the numeric operators. Unparseable
// input yields NaN, and NaN compares false against everything, so a numeric
// condition over garbage simply matches no records.
func toFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// matchesSet reduces the independent condition results with the combinator.
// AND is the default for anything that is not explicitly OR.
func matchesSet(e model.Employee, conds []Condition, comb Combinator) bool {
	if comb == CombinatorOr {
		for _, c := range conds {
			if Matches(e, c) {
				return true
			}
		}
		return false
	}
	for _, c := range conds {
		if !Matches(e, c) {
			return false
		}
	}
	return true
}

// Filter returns the records matching the condition set, in input order.
// Callers with an empty condition set should skip the call; see Evaluate.
func Filter(records []model.Employee, conds []Condition, comb Combinator) []model.Employee {
	matched := make([]model.Employee, 0, len(records))
	for _, e := range records {
		if matchesSet(e, conds, comb) {
			matched = append(matched, e)
		}
	}
	return matched
}
