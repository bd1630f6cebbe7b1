package docqa

import "github.com/kailas-cloud/docqa/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidRequest           = domain.ErrInvalidRequest
	ErrKnowledgeBaseUnavailable = domain.ErrKnowledgeBaseUnavailable
)
