// internal/utils/pagination.go
package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const maxPageLimit = 100

// PaginationParams is the limit/skip window used by catalog listings. A zero
// limit means no limit.
type PaginationParams struct {
	Limit int `json:"limit"`
	Skip  int `json:"skip"`
}

type PaginationResult struct {
	Limit int         `json:"limit"`
	Skip  int         `json:"skip"`
	Total int64       `json:"total"`
	Data  interface{} `json:"data"`
}

func GetPaginationParams(c *gin.Context) PaginationParams {
	limit, _ := strconv.Atoi(c.Query("limit"))
	skip, _ := strconv.Atoi(c.Query("skip"))

	if limit < 0 {
		limit = 0
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if skip < 0 {
		skip = 0
	}

	return PaginationParams{Limit: limit, Skip: skip}
}

func CreatePaginationResult(data interface{}, total int64, params PaginationParams) PaginationResult {
	return PaginationResult{
		Limit: params.Limit,
		Skip:  params.Skip,
		Total: total,
		Data:  data,
	}
}

func SetPaginationHeaders(c *gin.Context, result PaginationResult) {
	c.Header("X-Total-Count", strconv.FormatInt(result.Total, 10))
	c.Header("X-Limit", strconv.Itoa(result.Limit))
	c.Header("X-Skip", strconv.Itoa(result.Skip))
}
