package domain

import "errors"

var (
	// ErrSurveyNotFound is returned when a survey identifier does not resolve.
	ErrSurveyNotFound = errors.New("survey not found")
	// ErrResponseNotFound is returned when a response identifier does not resolve.
	ErrResponseNotFound = errors.New("response not found")
	// ErrValidation indicates a malformed survey definition or submission.
	ErrValidation = errors.New("validation failed")
	// ErrEncoding indicates the image or document encoder failed.
	ErrEncoding = errors.New("encoding failed")
)
