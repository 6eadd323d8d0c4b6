package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/coursehub/user-service/internal/application"
	"github.com/coursehub/user-service/pkg/response"
)

// pagination is the listing metadata attached to paged responses.
type pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

func newPagination(page, limit, totalItems int) pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (totalItems + limit - 1) / limit
	}
	return pagination{Page: page, Limit: limit, TotalItems: totalItems, TotalPages: totalPages}
}

func intQuery(c *gin.Context, name string, def int) int {
	s := c.Query(name)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return def
	}
	return n
}

// writeServiceError maps application errors onto the response error codes.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrUserNotFound),
		errors.Is(err, application.ErrCartNotFound),
		errors.Is(err, application.ErrWishlistNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error(), nil)
	case errors.Is(err, application.ErrEmailTaken):
		response.Error(c, http.StatusConflict, response.CodeDuplicate, err.Error(), nil)
	case errors.Is(err, application.ErrNotInstructor),
		errors.Is(err, application.ErrNoProfile):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, err.Error(), nil)
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "internal error", nil)
	}
}
