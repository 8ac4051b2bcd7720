/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct. The Message of each entry
is the exact text sent to chat clients in a /server notice; entries containing a %s verb are
completed through NewError details.
*/
package errs

import "net/http"

// errorMap stores the CustomError template corresponding to every application error code.
var errorMap = map[int]CustomError{
	// 1xxx: Gateway Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},

	// 2xxx: Session Registration Errors
	ErrDuplicateName:    {Code: ErrDuplicateName, Message: "Username already in use. Please choose another.", Status: http.StatusConflict},
	ErrInvalidUsername:  {Code: ErrInvalidUsername, Message: "Invalid username."},
	ErrHandshakeTimeout: {Code: ErrHandshakeTimeout, Message: "Username not received in time."},
	ErrUserNotFound:     {Code: ErrUserNotFound, Message: "User not found: %s", Status: http.StatusNotFound},

	// 3xxx: Command Routing Errors
	ErrMalformedCommand: {Code: ErrMalformedCommand, Message: "Unknown command: %s"},
	ErrUnknownCommand:   {Code: ErrUnknownCommand, Message: "Unknown command: %s"},
	ErrTargetNotFound:   {Code: ErrTargetNotFound, Message: "User not found: %s"},
	ErrLineTooLong:      {Code: ErrLineTooLong, Message: "Message is too long."},

	// 4xxx: Transport Errors
	ErrStreamFailure: {Code: ErrStreamFailure, Message: "Connection lost."},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
