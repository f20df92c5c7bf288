package client

import (
	"net/http"

	"github.com/ferdian3456/envisiontech/internal/constant"
	"github.com/ferdian3456/envisiontech/internal/model"

	"github.com/bytedance/sonic"
)

// Resolve turns a status and raw body into T. A 200 that does not decode is INVALID_DATA.
// Any other status must carry {"error": "..."}; its message becomes a SERVER_ERROR, and an
// unreadable envelope is INVALID_RESPONSE.
func Resolve[T any](status int, raw []byte) (T, error) {
	var value T

	if status == http.StatusOK {
		err := sonic.Unmarshal(raw, &value)
		if err != nil {
			return value, model.NewClientError(constant.ERR_INVALID_DATA, "payload did not match expected shape", err)
		}

		return value, nil
	}

	var envelope model.ErrorResponse
	err := sonic.Unmarshal(raw, &envelope)
	if err != nil {
		return value, model.NewClientError(constant.ERR_INVALID_RESPONSE, "malformed error envelope", err)
	}
	if envelope.Error == "" {
		return value, model.NewClientError(constant.ERR_INVALID_RESPONSE, "error envelope without message", nil)
	}

	return value, model.NewServerError(envelope.Error)
}
