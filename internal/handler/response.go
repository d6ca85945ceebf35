// Package handler contains the HTTP endpoints.  Every response uses the
// same envelope: {"success": bool, "message": string, "data": ...}.
// success is derived from the status code so handlers cannot disagree
// with it.
package handler

import "github.com/labstack/echo/v4"

type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// pagination mirrors the shape list endpoints attach under data.
type pagination struct {
	Total       int  `json:"total"`
	Limit       int  `json:"limit"`
	TotalPages  int  `json:"totalPages"`
	CurrentPage int  `json:"currentPage"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

func newPagination(total, limit, page int) pagination {
	if limit < 1 {
		limit = 1
	}
	totalPages := (total + limit - 1) / limit
	return pagination{
		Total:       total,
		Limit:       limit,
		TotalPages:  totalPages,
		CurrentPage: page,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, envelope{
		Success: status < 400,
		Message: message,
		Data:    data,
	})
}
