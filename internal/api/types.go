package api

import (
	"github.com/staffdir/staffdir-backend/internal/model"
	"github.com/staffdir/staffdir-backend/internal/query"
)

// EmployeesResponse is one page of records plus the pre-pagination count.
type EmployeesResponse struct {
	Data    []model.Employee `json:"data"`
	Total   int              `json:"total"`
	HasMore bool             `json:"hasMore"`
}

// FieldsResponse lists the queryable fields for the filter UI.
type FieldsResponse struct {
	Fields []model.FieldSpec `json:"fields"`
}

// PresetRequest is the body for preset create and update.
type PresetRequest struct {
	Name      string            `json:"name"`
	Filters   []query.Condition `json:"filters"`
	Logic     query.Combinator  `json:"logic"`
	SortField string            `json:"sortField,omitempty"`
	SortOrder string            `json:"sortOrder,omitempty"`
}

// ErrorResponse is the JSON error body for all endpoints.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
