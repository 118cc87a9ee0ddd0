package response

import "github.com/gin-gonic/gin"

// ErrorBody is the uniform error payload. Authentication failures get a
// generic message so the response never reveals whether a username exists.
type ErrorBody struct {
	Error string `json:"error"`
}

func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, ErrorBody{Error: message})
}

func AbortError(c *gin.Context, httpStatus int, message string) {
	c.AbortWithStatusJSON(httpStatus, ErrorBody{Error: message})
}
