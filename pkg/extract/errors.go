package extract

import (
	"errors"
	"fmt"
)

// ErrMalformedOpening is returned when an opening's front profile does not
// resolve to a rectangle.
var ErrMalformedOpening = errors.New("opening profile is not a rectangle")

// ExtractionError reports an element that could not be extracted.
type ExtractionError struct {
	Tag    string
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract %s: %s: %v", e.Tag, e.Reason, e.Err)
	}
	return fmt.Sprintf("extract %s: %s", e.Tag, e.Reason)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
