package scanning

import "errors"

// Error kinds surfaced by the extraction pipeline. Each stage wraps its own
// kind and never downgrades another stage's error; callers classify with
// errors.Is.
var (
	// ErrExternalService means the model call failed, timed out, or
	// returned an empty reply.
	ErrExternalService = errors.New("external service error")

	// ErrMalformedExtraction means the model's reply could not be decoded
	// as JSON after fence stripping.
	ErrMalformedExtraction = errors.New("malformed extraction")

	// ErrValidation means the decoded fields failed required-field or
	// coercion rules.
	ErrValidation = errors.New("validation error")
)
