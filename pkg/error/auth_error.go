package error

// AuthError is fatal for the run: no usable session and no way to get one.
type AuthError struct {
	Message string
	Cause   error
}

func NewAuthError(message string, cause error) *AuthError {
	return &AuthError{Message: message, Cause: cause}
}

func (err *AuthError) Error() string {
	if err.Cause != nil {
		return err.Message + ": " + err.Cause.Error()
	}
	return err.Message
}

func (err *AuthError) Unwrap() error {
	return err.Cause
}

func (err *AuthError) ErrCode() string {
	return "AUTH_ERROR"
}
