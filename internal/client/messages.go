package client

import (
	"errors"

	"github.com/ferdian3456/envisiontech/internal/constant"
	"github.com/ferdian3456/envisiontech/internal/model"
)

// UserMessage is the text shown to an end user for err. Server messages pass through
// verbatim; other failures get a fixed notice.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}

	var clientErr *model.ClientError
	if !errors.As(err, &clientErr) {
		return "An unexpected error occurred"
	}

	switch clientErr.Code {
	case constant.ERR_SERVER_ERROR:
		return clientErr.Message
	case constant.ERR_INVALID_ROUTE:
		return "Invalid URL."
	case constant.ERR_INVALID_PARAMETERS:
		return "Invalid Parameters."
	case constant.ERR_INVALID_RESPONSE:
		return "Invalid Response."
	case constant.ERR_INVALID_DATA:
		return "Invalid Data."
	case constant.ERR_AUTH_ERROR:
		return "Please sign in first."
	default:
		return "An unexpected error occurred"
	}
}
