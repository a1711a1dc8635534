package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

// RespondFailure reports a normal negative outcome (e.g. no table can
// seat the party) as status=false with HTTP 200: it is an answer, not an
// error, and the UI offers manual assignment instead of retrying.
func RespondFailure(c *gin.Context, message string) {
	c.JSON(http.StatusOK, JSONResponse{
		Status:  false,
		Message: message,
		Data:    nil,
	})
}
