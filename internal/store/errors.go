package store

import "errors"

var (
	// ErrDuplicateUsername is returned at registration when the username is taken.
	ErrDuplicateUsername = errors.New("username already taken")
	// ErrDuplicateEmail is returned at registration when the email is registered.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredentials is the single login failure: it does not reveal
	// whether the user exists or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrNotFound covers both a missing record and a record owned by someone
	// else, so lookups never leak another user's data.
	ErrNotFound = errors.New("record not found")
)

// ValidationError reports a rejected field input. Handlers show the message
// and redisplay the form.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func validationErr(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
