package model

import "github.com/ferdian3456/envisiontech/internal/constant"

type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Param   string `json:"param"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UsernameConflict and EmailConflict are returned both by the pre-insert
// checks and by stores that hit the unique constraint on insert.
func UsernameConflict() *ValidationError {
	return &ValidationError{
		Code:    constant.ERR_CONFLICT_ERROR,
		Message: "This username already exists.",
		Param:   "username",
	}
}

func EmailConflict() *ValidationError {
	return &ValidationError{
		Code:    constant.ERR_CONFLICT_ERROR,
		Message: "This email already exists.",
		Param:   "email",
	}
}

// ErrorResponse is the body of every non-200 response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// ClientError is a classified failure of a client call. errors.Is matches on Code,
// so callers can test against the Err* values below.
type ClientError struct {
	Code    string
	Message string
	Origin  error
}

func (e *ClientError) Error() string {
	if e.Origin != nil {
		return e.Message + ": " + e.Origin.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Origin
}

func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	return ok && t.Code == e.Code
}

var (
	ErrInvalidRoute      = &ClientError{Code: constant.ERR_INVALID_ROUTE, Message: "route could not form a valid url"}
	ErrInvalidParameters = &ClientError{Code: constant.ERR_INVALID_PARAMETERS, Message: "request body could not be encoded"}
	ErrInvalidResponse   = &ClientError{Code: constant.ERR_INVALID_RESPONSE, Message: "malformed error envelope"}
	ErrServer            = &ClientError{Code: constant.ERR_SERVER_ERROR, Message: "server error"}
	ErrInvalidData       = &ClientError{Code: constant.ERR_INVALID_DATA, Message: "payload did not match expected shape"}
	ErrAuth              = &ClientError{Code: constant.ERR_AUTH_ERROR, Message: "no access token"}
)

func NewClientError(code string, message string, origin error) *ClientError {
	return &ClientError{
		Code:    code,
		Message: message,
		Origin:  origin,
	}
}

// NewServerError carries the server's own explanation verbatim.
func NewServerError(message string) *ClientError {
	return &ClientError{
		Code:    constant.ERR_SERVER_ERROR,
		Message: message,
	}
}
