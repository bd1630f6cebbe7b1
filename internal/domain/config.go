package domain

// KeyPrefix namespaces every key docqa writes to a shared KV store.
const KeyPrefix = "docqa:"

// KnowledgeDefaults holds the built-in limits of the document loader.
type KnowledgeDefaults struct {
	Extensions     []string
	MaxFileSize    int64
	PDFTimeoutSec  int
	Concurrency    int
	DefaultResults int
	MaxResults     int
}

// DefaultKnowledge returns the limits used when nothing is configured.
func DefaultKnowledge() KnowledgeDefaults {
	return KnowledgeDefaults{
		Extensions:     []string{"md", "mdx", "txt", "pdf", "doc", "docx"},
		MaxFileSize:    10 * 1024 * 1024,
		PDFTimeoutSec:  10,
		Concurrency:    8,
		DefaultResults: 5,
		MaxResults:     10,
	}
}
