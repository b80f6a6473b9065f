package utils

import (
	"errors"
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

// RespondAppError memetakan ErrKind ke HTTP status. Error yang bukan
// AppError dianggap internal.
func RespondAppError(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var code int
	switch appErr.Kind {
	case KindValidation:
		code = http.StatusBadRequest
	case KindNotFound:
		code = http.StatusNotFound
	case KindConflict:
		code = http.StatusConflict
	case KindInvalidTransition:
		code = http.StatusUnprocessableEntity
	case KindExternal:
		code = http.StatusBadGateway
	default:
		code = http.StatusInternalServerError
	}

	RespondError(c, code, appErr)
}
