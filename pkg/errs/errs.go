// Package errs implements the two-kind error taxonomy used throughout the
// gateway: AppError for failures that abort the process before the
// listener binds, and ApiError for failures raised while handling a
// request. Every ApiError carries a stable code from a closed set so it
// can be rendered as the Error-Code response header and looked up again
// through GET /exception/:code.
package errs

import (
	"fmt"
	"net/http"
)

// Code is a stable, closed identifier for an ApiError. New values must be
// registered in the codes table below; an unregistered code is a bug, not
// a runtime condition.
type Code string

// Code families, per the gateway's error taxonomy:
//
//	SYSIN*** internal failures (crypto, serialization, programmer error)
//	CLIDT*** downstream/origin failures
//	CLIUA*** unauthorized or malformed client input
//	CLIFB*** forbidden or bad client state
const (
	CodeInternal           Code = "SYSIN001"
	CodeInputUnprocessable Code = "SYSIN002"
	CodeFuture             Code = "SYSIN003"

	CodeOriginBadStatus   Code = "CLIDT001"
	CodeOriginKeyInvalid  Code = "CLIDT002"
	CodeOriginBadResponse Code = "CLIDT003"

	CodeServiceNotRegistered Code = "CLIUA001"
	CodeTokenNotFound        Code = "CLIUA002"
	CodeTokenMalformed       Code = "CLIUA003"
	CodeSymmetricFormat      Code = "CLIUA004"
	CodeAlreadyRegistered    Code = "CLIUA005"
	CodePassUnauthorized     Code = "CLIUA006"
	CodePassExposed          Code = "CLIUA007"
	CodeEnvelopeMalformed    Code = "CLIUA008"

	CodeSessionKeyMissing  Code = "CLIFB001"
	CodeSessionKeyInactive Code = "CLIFB002"
	CodeTokenExpired       Code = "CLIFB003"
	CodeTokenIntegrity     Code = "CLIFB004"
	CodeSymmetricKeyData   Code = "CLIFB005"
	CodeMessageFormat      Code = "CLIFB006"
	CodeDecryptFailed      Code = "CLIFB007"
	CodeEncryptFailed      Code = "CLIFB008"
)

// definition pairs a Code with its fixed, human-readable description and
// the HTTP status it maps to.
type definition struct {
	Description string
	HTTPStatus  int
}

// registry is the closed set of known codes. It is intentionally a plain
// map rather than an open string lookup: a code not present here cannot
// be constructed by ApiError's exported constructors. Descriptions are
// wire-contract constants and are preserved verbatim, misspellings
// included ("Unautorized").
var registry = map[Code]definition{
	CodeInternal:           {"Internal server error.", 500},
	CodeInputUnprocessable: {"Service input cannot be processed by server.", 500},
	CodeFuture:             {"Future implementation.", 500},

	CodeOriginBadStatus:   {"Service bad status.", 502},
	CodeOriginKeyInvalid:  {"Service public key data cannot be processed.", 502},
	CodeOriginBadResponse: {"Service bad response.", 502},

	CodeServiceNotRegistered: {"Service is not registered.", 404},
	CodeTokenNotFound:        {"Service token not found.", 401},
	CodeTokenMalformed:       {"Service token bad format.", 401},
	CodeSymmetricFormat:      {"Symmetric key format unsupported.", 406},
	CodeAlreadyRegistered:    {"Service is already registered.", 409},
	CodePassUnauthorized:     {"Unautorized pass token.", 401},
	CodePassExposed:          {"Pass token exposed.", 400},
	CodeEnvelopeMalformed:    {"Non valid subscribe payload format.", 422},

	CodeSessionKeyMissing:  {"Symmetric key is not defined.", 403},
	CodeSessionKeyInactive: {"Symmetric key is not active.", 403},
	CodeTokenExpired:       {"Service token expired.", 401},
	CodeTokenIntegrity:     {"Token integrity compromised.", 401},
	CodeSymmetricKeyData:   {"Incorrect symmetric key data.", 403},
	CodeMessageFormat:      {"Incorrect encrypted message format.", 422},
	CodeDecryptFailed:      {"Message cannot be decrypted.", 403},
	CodeEncryptFailed:      {"Message cannot be encrypted.", 500},
}

// Lookup returns the fixed description and HTTP status for a known code.
// ok is false for any code not in the registry, including NOTFOUND-style
// probes from GET /exception/:code.
func Lookup(code Code) (description string, httpStatus int, ok bool) {
	def, ok := registry[code]
	if !ok {
		return "", 0, false
	}
	return def.Description, def.HTTPStatus, true
}

// ApiError is raised while handling a request. It carries the HTTP
// status it maps to, a stable code, and a message.
type ApiError struct {
	HTTPStatus int
	Code       Code
	Message    string
}

func (e *ApiError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WriteResponse writes the Error-Code header and the message body at
// the error's HTTP status. Every route converts an ApiError to an HTTP
// response through this method.
func (e *ApiError) WriteResponse(w http.ResponseWriter) {
	if e.Code != "" {
		w.Header().Set("Error-Code", string(e.Code))
	}
	w.WriteHeader(e.HTTPStatus)
	_, _ = w.Write([]byte(e.Message))
}

// AsApiError coerces any error into an ApiError, falling back to
// CodeInternal for errors that did not originate in this package — a
// handler must never leak a bare error string without a stable code.
func AsApiError(err error) *ApiError {
	if apiErr, ok := err.(*ApiError); ok {
		return apiErr
	}
	return New(CodeInternal, err.Error())
}

// New builds an ApiError from a registered Code, using the code's fixed
// description as the message unless msg overrides it.
func New(code Code, msg string) *ApiError {
	def, ok := registry[code]
	description, status := def.Description, def.HTTPStatus
	if !ok {
		code = CodeInternal
		description = registry[CodeInternal].Description
		status = registry[CodeInternal].HTTPStatus
	}
	if msg == "" {
		msg = description
	}
	return &ApiError{HTTPStatus: status, Code: code, Message: msg}
}

// AppError is raised during bootstrap — invalid keys, missing
// configuration — and aborts the process before the listener binds. It
// carries a message only; there is no audience to hand a structured code
// to.
type AppError struct {
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

// Bootstrap wraps cause as an AppError with the given message.
func Bootstrap(message string, cause error) *AppError {
	return &AppError{Message: message, Cause: cause}
}
