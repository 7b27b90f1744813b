package googleflights

import "fmt"

// LaunchError reports that the browser process could not be started. The
// scrape attempt is fatal; no partial session is ever returned.
type LaunchError struct {
	Err error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("browser launch failed: %v", e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// NavigationError reports a non-success document response (or no response at
// all) from the target page. Status is 0 when no response was observed.
type NavigationError struct {
	Status int64
	Err    error
}

func (e *NavigationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("navigation failed: %v", e.Err)
	}
	return fmt.Sprintf("navigation failed: page returned status %d", e.Status)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// TimeoutError reports that the content-ready condition was never met within
// the (extended) wait window. Extraction is not attempted after it.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out waiting for flight results: %v", e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }
