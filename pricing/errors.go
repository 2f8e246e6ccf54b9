package pricing

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDataset is returned by Fit when there is not enough data to train a model.
	ErrEmptyDataset = errors.New("dataset has fewer than 2 distinct records")
	// ErrUnknownCategory matches every *UnknownCategoryError.
	ErrUnknownCategory = errors.New("value not recognized")
	// ErrNoHistoricalData is returned when a known combination has no recorded prices.
	ErrNoHistoricalData = errors.New("no historical data for this combination")
)

// UnknownCategoryError reports a categorical value that was not seen at fit time.
type UnknownCategoryError struct {
	Column string
	Value  string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown %s %q: %v", e.Column, e.Value, ErrUnknownCategory)
}

func (e *UnknownCategoryError) Is(target error) bool {
	return target == ErrUnknownCategory
}

// ErrorKind names the failure class of err for callers that render errors as data.
// It returns "" for nil and "InternalError" for anything it does not recognise.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyDataset):
		return "EmptyDatasetError"
	case errors.Is(err, ErrUnknownCategory):
		return "UnknownCategoryError"
	case errors.Is(err, ErrNoHistoricalData):
		return "NoHistoricalDataError"
	default:
		return "InternalError"
	}
}
