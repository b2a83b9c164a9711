package wrapper

import (
	"errors"
	"net/http"

	"github.com/Alwanly/fleet-dashboard/pkg/apierror"
)

type JSONResult struct {
	Code    int         `json:"-"`
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func ResponseSuccess(httpCode int, data interface{}) JSONResult {
	return JSONResult{
		Code:    httpCode,
		Success: true,
		Message: "Success",
		Data:    data,
	}
}

func ResponseFailed(httpCode int, message string, data interface{}) JSONResult {
	return JSONResult{
		Code:    httpCode,
		Success: false,
		Message: message,
		Data:    data,
	}
}

// ResponseError builds a failed result for err. Fleet API errors keep
// their upstream status and a transport failure (status 0) becomes 502;
// anything else uses httpCode.
func ResponseError(httpCode int, err error) JSONResult {
	var ae *apierror.Error
	if errors.As(err, &ae) {
		httpCode = ae.Status
		if httpCode == 0 {
			httpCode = http.StatusBadGateway
		}
		return ResponseFailed(httpCode, ae.Message, ae)
	}
	return ResponseFailed(httpCode, err.Error(), nil)
}
