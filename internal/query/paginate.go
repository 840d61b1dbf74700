package query

import "github.com/staffdir/staffdir-backend/internal/model"

// Paginate slices the half-open window [page*size, page*size+size) out of
// the records and reports the pre-pagination total. A window past the end
// is an empty page with hasMore false, never an error. Page size is not
// clamped here; the HTTP boundary decides the ceiling.
func Paginate(records []model.Employee, page, size int) ([]model.Employee, int, bool) {
	total := len(records)

	if page < 0 || size <= 0 {
		return []model.Employee{}, total, false
	}

	// page*size can overflow for absurd page indexes; any such window is
	// past the end by definition.
	if page > total/size {
		return []model.Employee{}, total, false
	}

	start := page * size
	if start >= total {
		return []model.Employee{}, total, false
	}

	end := start + size
	if end > total {
		end = total
	}

	return records[start:end], total, end < total
}
