package service

// ValidationError marks a business-rule violation. Handlers translate it to
// a 400 response carrying the message verbatim.
type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}
