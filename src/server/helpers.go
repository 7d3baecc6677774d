package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"stock-board/src/dataset"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------

// requireQuery reads a mandatory query parameter. On absence it writes a 422
// response and returns false.
func requireQuery(c *gin.Context, name string) (string, bool) {
	v, ok := c.GetQuery(name)
	if !ok {
		badParam(c, name, "field required")
		return "", false
	}
	return v, true
}

// -----------------------------------------------------------------------------

func queryInt(c *gin.Context, name string, def int) (int, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || strings.TrimSpace(raw) == "" {
		return def, true
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		badParam(c, name, "value is not a valid integer")
		return 0, false
	}
	return v, true
}

// -----------------------------------------------------------------------------

func queryFloat(c *gin.Context, name string, def float64) (float64, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || strings.TrimSpace(raw) == "" {
		return def, true
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		badParam(c, name, "value is not a valid number")
		return 0, false
	}
	return v, true
}

// -----------------------------------------------------------------------------

// queryDay parses a date parameter. An unparseable value yields the zero
// time, which matches no trading day, so queries degrade to empty results.
func queryDay(raw string) time.Time {
	day, ok := dataset.ParseDay(raw)
	if !ok {
		return time.Time{}
	}
	return day
}

// -----------------------------------------------------------------------------

func badParam(c *gin.Context, name, msg string) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
		"detail": fmt.Sprintf("query.%s: %s", name, msg),
	})
}
