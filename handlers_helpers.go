package main

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/defensoria/siri-backend/models"
	"github.com/gin-gonic/gin"
)

// respondError maps domain errors to their HTTP shape. Coded errors carry
// their own status and wire format; everything else is a plain 400.
func respondError(c *gin.Context, err error) {
	var apiErr *models.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, apiErr)
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func queryInt(c *gin.Context, name string) *int {
	value := strings.TrimSpace(c.Query(name))
	if value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &n
}

func queryIntList(c *gin.Context, name string) []int {
	value := strings.TrimSpace(c.Query(name))
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

func queryBool(c *gin.Context, name string) *bool {
	value := strings.ToLower(strings.TrimSpace(c.Query(name)))
	switch value {
	case "true", "1":
		b := true
		return &b
	case "false", "0":
		b := false
		return &b
	}
	return nil
}

func queryString(c *gin.Context, name string) *string {
	value := strings.TrimSpace(c.Query(name))
	if value == "" {
		return nil
	}
	return &value
}

func paramId(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

func pageNumber(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func pageSize() int {
	if v := strings.TrimSpace(os.Getenv("PAGE_SIZE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return models.DefaultPageSize
}

// writeExcelAttachment sets the spreadsheet headers before the body is
// streamed.
func writeExcelAttachment(c *gin.Context, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+filename)
}
