package domain

import "errors"

var (
	// ErrInvalidInput marks errors caused by user supplied parameters
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidDateRange is returned when a bound is missing or start is after end
	ErrInvalidDateRange = newInputError("invalid date range")

	// ErrUnknownStation is returned for a station selector outside the dataset
	ErrUnknownStation = newInputError("unknown station")

	// ErrMissingColumn is returned by loaders when a required column is absent
	ErrMissingColumn = errors.New("missing required column")

	// ErrEmptyDataset is returned when a source yields no observations
	ErrEmptyDataset = errors.New("dataset is empty")
)

// inputError is a user input error that also matches ErrInvalidInput
type inputError struct {
	msg string
}

func newInputError(msg string) error {
	return &inputError{msg: msg}
}

func (e *inputError) Error() string {
	return e.msg
}

func (e *inputError) Is(target error) bool {
	return target == ErrInvalidInput
}
