package thoughts

import "errors"

var (
	// ErrNotFound means a mutation referenced an unknown thought id.
	ErrNotFound = errors.New("thought not found")
	// ErrMalformedResponse means the completion endpoint replied but the
	// reply could not be parsed into an AnalysisResult. Not retried; the
	// user's input text is preserved so they may resubmit.
	ErrMalformedResponse = errors.New("failed to decode AI response")
)
