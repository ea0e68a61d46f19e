package domain

import "errors"

var (
	ErrNotFound          = errors.New("interview not found")
	ErrQuestionNotFound  = errors.New("interview question not found")
	ErrInvalidTransition = errors.New("invalid interview transition")
	ErrInvalidAnswer     = errors.New("invalid answer")
)
