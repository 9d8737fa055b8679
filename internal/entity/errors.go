package entity

import "errors"

// Domain errors
var (
	// Artifact errors
	ErrArtifactNotFound = errors.New("artifact not found")
	ErrArtifactInvalid  = errors.New("invalid artifact")
	ErrIndexNotFound    = errors.New("vector index not found")
	ErrIndexInvalid     = errors.New("invalid vector index")

	// Inference errors
	ErrFeatureMismatch = errors.New("feature dimension mismatch")

	// Remote service errors
	ErrEmptyResponse = errors.New("empty response from AI model")
	ErrUpstream      = errors.New("upstream service error")

	// Validation errors
	ErrMissingField  = errors.New("field required")
	ErrInvalidFormat = errors.New("invalid format")
)
