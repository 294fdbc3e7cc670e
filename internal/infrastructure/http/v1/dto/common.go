// Package dto provides Data Transfer Objects for API requests/responses.
package dto

// SuccessResponse acknowledges an operation without a payload.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// CountResponse reports how many rows an operation touched.
type CountResponse struct {
	Count int64 `json:"count"`
}

// ListResponse wraps list results with pagination.
type ListResponse struct {
	Items      any   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}
