package constant

const (
	ERR_VALIDATION_CODE                 = "VALIDATION_ERROR"
	ERR_INVALID_REQUEST_BODY_ERROR_CODE = "INVALID_REQUEST_BODY_ERROR"
	ERR_INTERNAL_SERVER_ERROR_CODE      = "INTERNAL_SERVER_ERROR"
	ERR_INTERNAL_SERVER_ERROR_MESSAGE   = "Something went wrong. If the problem persists, please contact support"
	ERR_INVALID_REQUEST_BODY_MESSAGE    = "The request is invalid or malformed"
	ERR_NOT_FOUND_ERROR                 = "NOT_FOUND_ERROR"
	ERR_UNAUTHORIZED_ERROR              = "UNAUTHORIZED_ERROR"
	ERR_RATE_LIMIT_ERROR                = "RATE_LIMIT_ERROR"
	ERR_CONFLICT_ERROR                  = "CONFLICT_ERROR"
)

// Client side failure kinds. Every comment repository call surfaces exactly one of these.
const (
	ERR_INVALID_ROUTE      = "INVALID_ROUTE"
	ERR_INVALID_PARAMETERS = "INVALID_PARAMETERS"
	ERR_INVALID_RESPONSE   = "INVALID_RESPONSE"
	ERR_SERVER_ERROR       = "SERVER_ERROR"
	ERR_INVALID_DATA       = "INVALID_DATA"
	ERR_AUTH_ERROR         = "AUTH_ERROR"
)
