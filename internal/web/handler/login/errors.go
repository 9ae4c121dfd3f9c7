package login

import "errors"

// ErrInvalidFormData is returned when the submitted login form cannot be parsed.
var ErrInvalidFormData = errors.New("invalid form data")

// MsgMissingCredentials is shown when email or password is empty.
const MsgMissingCredentials = "Email and password are required"
