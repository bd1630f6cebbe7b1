package document

import (
	"path/filepath"
	"strings"
	"time"
)

// Document is a single loaded knowledge-base file (immutable value object).
// Name is the file name and is unique within one load.
type Document struct {
	name    string
	content string
}

// New creates a Document.
func New(name, content string) Document {
	return Document{name: name, content: content}
}

// Name returns the file name.
func (d *Document) Name() string { return d.name }

// Content returns the extracted plain text.
func (d *Document) Content() string { return d.content }

// Kind is the coarse file family shown in document listings.
type Kind string

// Known kinds.
const (
	KindMarkdown Kind = "markdown"
	KindText     Kind = "text"
	KindPDF      Kind = "pdf"
	KindWord     Kind = "word"
	KindUnknown  Kind = "unknown"
)

// KindOf classifies a file name by extension.
func KindOf(name string) Kind {
	switch Extension(name) {
	case "md", "mdx":
		return KindMarkdown
	case "txt":
		return KindText
	case "pdf":
		return KindPDF
	case "doc", "docx":
		return KindWord
	default:
		return KindUnknown
	}
}

// Extension returns the lowercased extension without the leading dot.
func Extension(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}

// BaseName returns the file name without its extension.
func BaseName(name string) string {
	return strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
}

// FileInfo describes an accepted file without reading its content.
type FileInfo struct {
	Name       string
	Kind       Kind
	Size       int64
	ModifiedAt time.Time
}

// HumanSize formats a byte count the way the admin listing shows it.
func HumanSize(bytes int64) string {
	switch {
	case bytes < 1024:
		return formatInt(bytes) + " B"
	case bytes < 1024*1024:
		return formatInt((bytes+512)/1024) + " KB"
	default:
		mb := float64(bytes) / (1024 * 1024)
		return formatFloat1(mb) + " MB"
	}
}
