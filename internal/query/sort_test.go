package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffdir/staffdir-backend/internal/model"
)

func names(records []model.Employee) []string {
	out := make([]string, len(records))
	for i, e := range records {
		out[i] = e.Name
	}
	return out
}

func TestSorted_NumberField(t *testing.T) {
	records := testEmployees() // Bob(30), Amy(25), Cid(25)

	asc := Sorted(records, Sort{Field: "age"})
	assert.Equal(t, []string{"Amy", "Cid", "Bob"}, names(asc))

	desc := Sorted(records, Sort{Field: "age", Descending: true})
	assert.Equal(t, []string{"Bob", "Amy", "Cid"}, names(desc))
}

func TestSorted_StringField(t *testing.T) {
	records := []model.Employee{
		{Name: "cid", City: "lisbon"},
		{Name: "Amy", City: "Berlin"},
		{Name: "bob", City: "Oslo"},
	}

	// Loose collation ignores case.
	asc := Sorted(records, Sort{Field: "name"})
	assert.Equal(t, []string{"Amy", "bob", "cid"}, names(asc))

	desc := Sorted(records, Sort{Field: "name", Descending: true})
	assert.Equal(t, []string{"cid", "bob", "Amy"}, names(desc))
}

func TestSorted_Stability(t *testing.T) {
	// Amy and Cid tie on age; their input order must survive in both
	// directions.
	records := testEmployees()

	asc := Sorted(records, Sort{Field: "age"})
	assert.Equal(t, []string{"Amy", "Cid", "Bob"}, names(asc))

	desc := Sorted(records, Sort{Field: "age", Descending: true})
	assert.Equal(t, []string{"Bob", "Amy", "Cid"}, names(desc))
}

func TestSorted_RoundTrip(t *testing.T) {
	// With no ties, ascending-then-reverse equals descending.
	records := []model.Employee{
		{Name: "a", Salary: 50000},
		{Name: "b", Salary: 91000},
		{Name: "c", Salary: 70000},
		{Name: "d", Salary: 61000},
	}

	asc := Sorted(records, Sort{Field: "salary"})
	desc := Sorted(records, Sort{Field: "salary", Descending: true})

	require.Len(t, asc, len(desc))
	for i := range asc {
		assert.Equal(t, asc[len(asc)-1-i].Name, desc[i].Name)
	}
}

func TestSorted_UnknownFieldIsIdentity(t *testing.T) {
	// A field outside the schema is absent for every record, so all keys
	// compare equal and the stable sort preserves input order.
	records := testEmployees()

	got := Sorted(records, Sort{Field: "shoe_size"})
	assert.Equal(t, names(records), names(got))

	got = Sorted(records, Sort{Field: "shoe_size", Descending: true})
	assert.Equal(t, names(records), names(got))
}

func TestSorted_DoesNotMutateInput(t *testing.T) {
	records := testEmployees()
	before := names(records)

	_ = Sorted(records, Sort{Field: "age"})
	assert.Equal(t, before, names(records))
}
