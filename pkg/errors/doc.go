// Package errors provides structured errors with codes for simple-auth.
//
// An Error carries a code, a message that is safe to return to clients and,
// optionally, the underlying cause. The HTTP layer turns the code into a
// status with MapErrorCodeToHTTPStatus and writes only the message; the
// cause goes to the log.
//
//	err := errors.New(errors.ErrCodeUserAlreadyExists, "User already exists")
//	err := errors.Internal(dbErr)
//
//	if errors.IsCode(err, errors.ErrCodeTokenInvalid) { ... }
//	status := errors.MapErrorCodeToHTTPStatus(errors.GetCode(err))
package errors
