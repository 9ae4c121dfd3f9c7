package auth

import "errors"

// ErrStaleSession is logged when a stored session fails re-verification and
// is purged. Callers only ever see VerifyResult.Valid == false.
var ErrStaleSession = errors.New("stored session is no longer valid")

// ValidationError is a local form constraint violation, detected before any
// gateway call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
