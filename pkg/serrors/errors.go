// Package serrors holds the coded error type shared by domain packages and
// the HTTP layer.
package serrors

import "maps"

// BaseError is a coded error that carries a human message and an optional
// locale key for UI rendering.
type BaseError struct {
	Code         string            `json:"code"`
	Message      string            `json:"message"`
	LocaleKey    string            `json:"locale_key,omitempty"`
	TemplateData map[string]string `json:"template_data,omitempty"`
}

func NewError(code, message, localeKey string) *BaseError {
	return &BaseError{
		Code:      code,
		Message:   message,
		LocaleKey: localeKey,
	}
}

func (e *BaseError) Error() string {
	return e.Message
}

// WithTemplateData returns a copy of e carrying the given template data.
// The copy does not match the original with errors.Is; wrap the sentinel
// instead when identity matters.
func (e *BaseError) WithTemplateData(data map[string]string) *BaseError {
	cp := *e
	cp.TemplateData = maps.Clone(data)
	return &cp
}

// Coded is implemented by errors that expose a stable machine-readable code.
type Coded interface {
	error
	ErrorCode() string
}

func (e *BaseError) ErrorCode() string {
	return e.Code
}
