package dataflows

import (
	"errors"
	"fmt"
)

var (
	// ErrNoNews is returned when a page yields no card with both title and link.
	ErrNoNews = errors.New("no news found")
	// ErrEmptyHistory is returned when statistics are requested over zero bars.
	ErrEmptyHistory = errors.New("price history is empty")
	// ErrParse marks a payload that could not be read as the expected structure.
	ErrParse = errors.New("parse error")
)

// FetchError reports a failed outbound request: either a transport failure
// (Err set) or a non-success status (StatusCode set).
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: HTTP error %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
