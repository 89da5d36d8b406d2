package apperr

import "errors"

// UserError pairs a short author-facing message with the underlying
// cause. The cause is for logs only; network-shaped details are never
// shown verbatim to the author.
type UserError struct {
	Msg string
	Err error
}

func New(msg string, cause error) *UserError {
	return &UserError{Msg: msg, Err: cause}
}

func (e *UserError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *UserError) Unwrap() error { return e.Err }

// Message extracts the author-facing message from err, falling back
// to a generic line for errors that never got one.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var uerr *UserError
	if errors.As(err, &uerr) {
		return uerr.Msg
	}
	return "something went wrong, please try again"
}
