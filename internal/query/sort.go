package query

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/staffdir/staffdir-backend/internal/model"
)

// Sorted returns a sorted copy of the records; the input slice is never
// mutated. The comparison branch is chosen by the schema's declared field
// kind, not the runtime value, so every record of a field compares the same
// way. Missing fields (names outside the schema) order before any present
// value and keep their relative input order among themselves.
//
// sort.SliceStable keeps equal keys in input order, which the pagination
// contract depends on: page boundaries must be deterministic across calls.
func Sorted(records []model.Employee, s Sort) []model.Employee {
	out := make([]model.Employee, len(records))
	copy(out, records)

	kind, known := model.FieldKind(s.Field)
	if !known {
		// Every record compares equal on an unknown field; stable sort
		// makes this the identity.
		return out
	}

	var cmp func(a, b model.Employee) int
	if kind == model.KindString {
		// A collator is not safe for concurrent use, so build one per sort.
		coll := collate.New(language.English, collate.Loose)
		cmp = func(a, b model.Employee) int {
			av, _ := a.Field(s.Field)
			bv, _ := b.Field(s.Field)
			return coll.CompareString(av.String(), bv.String())
		}
	} else {
		cmp = func(a, b model.Employee) int {
			av, _ := a.Field(s.Field)
			bv, _ := b.Field(s.Field)
			an, bn := av.Float(), bv.Float()
			switch {
			case an < bn:
				return -1
			case an > bn:
				return 1
			default:
				return 0
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(out[i], out[j])
		if s.Descending {
			return c > 0
		}
		return c < 0
	})

	return out
}
