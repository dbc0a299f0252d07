package response

import (
	"github.com/gin-gonic/gin"
	"github.com/jisetihq/jiseti/errors"
)

// JSON writes the standard response envelope. For *errors.Error values the
// carried status wins over the one passed in, so handlers can forward service
// errors without repeating the mapping.
func JSON(c *gin.Context, message string, status int, data interface{}, err error) {
	errMessage := ""
	if err != nil {
		errMessage = err.Error()
		if e, ok := err.(*errors.Error); ok {
			status = e.Status
		}
	}

	responsedata := gin.H{
		"message": message,
		"data":    data,
		"errors":  errMessage,
		"status":  status,
	}
	c.JSON(status, responsedata)
}
