package types

import "fmt"

// ApiError carries an HTTP status code and a machine-readable type through
// the handler chain to the global Fiber error handler.
type ApiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *ApiError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// Validation reports a missing or malformed required field.
func Validation(format string, args ...interface{}) *ApiError {
	return &ApiError{Code: 400, Message: fmt.Sprintf(format, args...), Type: "validation"}
}

// Duplicate reports a unique-name violation.
func Duplicate(format string, args ...interface{}) *ApiError {
	return &ApiError{Code: 400, Message: fmt.Sprintf(format, args...), Type: "duplicate"}
}

// InUse reports a reference item still referenced by filaments.
func InUse(format string, args ...interface{}) *ApiError {
	return &ApiError{Code: 400, Message: fmt.Sprintf(format, args...), Type: "in_use"}
}

// NotFound reports a missing row.
func NotFound(format string, args ...interface{}) *ApiError {
	return &ApiError{Code: 404, Message: fmt.Sprintf(format, args...), Type: "not_found"}
}

// Forbidden reports a role or ownership violation.
func Forbidden(format string, args ...interface{}) *ApiError {
	return &ApiError{Code: 403, Message: fmt.Sprintf(format, args...), Type: "forbidden"}
}

// Unauthorized reports a missing or invalid session, or bad credentials.
func Unauthorized(format string, args ...interface{}) *ApiError {
	return &ApiError{Code: 401, Message: fmt.Sprintf(format, args...), Type: "unauthorized"}
}
