package services

import "errors"

var (
	ErrBannerNotFound = errors.New("banner not found")
	ErrImageRequired  = errors.New("banner image is required")
)

// ValidationError reports a rejected request field. Routes translate it to a
// 400 with the field/message pair in the errors list.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// InvalidImageError reports an upload rejected before any write happened.
type InvalidImageError struct {
	Reason string
}

func (e *InvalidImageError) Error() string {
	return "invalid image: " + e.Reason
}
