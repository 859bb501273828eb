package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroom-behavior-api/pkg/logger"
)

// ContextTeacherKey is the gin context key storing the acting teacher id.
const ContextTeacherKey = "teacherID"

const maxTeacherIDLength = 128

// Teacher attributes each request to the teacher named in the X-Teacher-ID
// header, falling back to defaultID. The id is opaque and not verified.
func Teacher(defaultID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(logger.TeacherHeader))
		if id == "" || len(id) > maxTeacherIDLength {
			id = defaultID
		}
		c.Set(ContextTeacherKey, id)
		c.Next()
	}
}

// TeacherID returns the teacher id stored by Teacher, or "".
func TeacherID(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if v, exists := c.Get(ContextTeacherKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
