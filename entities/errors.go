package entities

import "fmt"

// UpstreamError is a non-2xx answer from the interaction service
type UpstreamError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// IsBadRequest reports a 400 answer, which the service uses for missing parameters
func (e *UpstreamError) IsBadRequest() bool {
	return e.StatusCode == 400
}
