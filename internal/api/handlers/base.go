package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const queryDateFormat = "2006-01-02"

// ParseDateParam parses a YYYY-MM-DD query parameter; a missing or
// malformed value yields the zero time.
func ParseDateParam(c *gin.Context, name string) time.Time {
	val := c.Query(name)
	if val == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(queryDateFormat, val)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

// ParseIntParam parses an integer query parameter with a default value.
func ParseIntParam(c *gin.Context, name string, defaultVal int) int {
	val := c.Query(name)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}
