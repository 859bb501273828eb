package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/classroom-behavior-api/pkg/errors"
)

const dateOnlyLayout = "2006-01-02"

// parseTimeQuery reads an optional RFC3339 or YYYY-MM-DD query value. A bare
// date used as an upper bound covers the whole day.
func parseTimeQuery(c *gin.Context, key string, upperBound bool) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateOnlyLayout, raw)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, key+" must be RFC3339 or YYYY-MM-DD")
	}
	if upperBound {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// parseRangeQuery reads the start/end pair shared by report endpoints.
func parseRangeQuery(c *gin.Context) (*time.Time, *time.Time, error) {
	start, err := parseTimeQuery(c, "start", false)
	if err != nil {
		return nil, nil, err
	}
	end, err := parseTimeQuery(c, "end", true)
	if err != nil {
		return nil, nil, err
	}
	return start, end, nil
}

func parseIntQuery(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, key+" must be an integer")
	}
	return v, nil
}

func invalidPayload(err error) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload")
}
