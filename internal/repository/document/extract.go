package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	domdoc "github.com/kailas-cloud/docqa/internal/domain/document"
)

// Fallback reasons, used as the "reason" metric label.
const (
	reasonError       = "error"
	reasonTimeout     = "timeout"
	reasonEmpty       = "empty"
	reasonUnsupported = "unsupported"
)

var (
	errEmptyText   = errors.New("extracted text is empty")
	errUnsupported = errors.New("format has no text extractor")
)

// ExtractFunc turns a file into plain text.
type ExtractFunc func(ctx context.Context, path string) (string, error)

// Format is an extraction strategy for one or more extensions.
// When Fallback is set, extraction errors degrade to Fallback(base) instead of
// dropping the file. Cacheable marks formats worth caching.
type Format struct {
	Name      string
	Extract   ExtractFunc
	Fallback  func(base string) string
	Cacheable bool
}

// Registry maps lowercased extensions (no dot) to formats.
// Accepted extensions without an entry are read as text.
type Registry struct {
	formats map[string]Format
	text    Format
}

// NewRegistry returns the built-in registry: text, PDF with timeout, and Word fallback.
func NewRegistry(pdfTimeout time.Duration) *Registry {
	text := Format{Name: "text", Extract: ReadText}

	r := &Registry{formats: make(map[string]Format), text: text}
	r.Register(text, "md", "mdx", "txt")
	r.Register(Format{
		Name:      "pdf",
		Extract:   PDFExtractor(pdfTimeout),
		Fallback:  FilenameFallback("PDF Document"),
		Cacheable: true,
	}, "pdf")
	r.Register(Format{
		Name:     "word",
		Fallback: FilenameFallback("Word Document"),
	}, "doc", "docx")
	return r
}

// Register binds f to the given extensions, replacing earlier bindings.
func (r *Registry) Register(f Format, exts ...string) {
	for _, ext := range exts {
		r.formats[strings.ToLower(strings.TrimPrefix(ext, "."))] = f
	}
}

// For returns the format for an extension.
func (r *Registry) For(ext string) Format {
	if f, ok := r.formats[ext]; ok {
		return f
	}
	return r.text
}

// ReadText reads a file as UTF-8 text. Invalid sequences become U+FFFD.
func ReadText(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return strings.ToValidUTF8(string(data), "\uFFFD"), nil
}

// FilenameFallback builds synthetic content from the file's base name:
// "[<label>: <base>] - Key topics from filename: <base with - and _ as spaces>".
func FilenameFallback(label string) func(base string) string {
	return func(base string) string {
		words := strings.NewReplacer("-", " ", "_", " ").Replace(base)
		return "[" + label + ": " + base + "] - Key topics from filename: " + words
	}
}

// PDFExtractor extracts plain text with a wall-clock limit.
// The parser runs in its own goroutine; on timeout it is abandoned.
func PDFExtractor(timeout time.Duration) ExtractFunc {
	return pdfExtractor(timeout, readPDF)
}

func pdfExtractor(timeout time.Duration, parse func(path string) (string, error)) ExtractFunc {
	return func(ctx context.Context, path string) (string, error) {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		type result struct {
			text string
			err  error
		}
		ch := make(chan result, 1)

		go func() {
			defer func() {
				// The parser panics on some malformed inputs.
				if r := recover(); r != nil {
					ch <- result{err: fmt.Errorf("pdf parser panic: %v", r)}
				}
			}()
			text, err := parse(path)
			ch <- result{text: text, err: err}
		}()

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("extract %s: %w", path, ctx.Err())
		case res := <-ch:
			if res.err != nil {
				return "", fmt.Errorf("extract %s: %w", path, res.err)
			}
			if strings.TrimSpace(res.text) == "" {
				return "", errEmptyText
			}
			return res.text, nil
		}
	}
}

func readPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("plain text: %w", err)
	}
	data, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("read plain text: %w", err)
	}
	return string(data), nil
}

// fallbackReason classifies an extraction error for the metric label.
func fallbackReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return reasonTimeout
	case errors.Is(err, errEmptyText):
		return reasonEmpty
	case errors.Is(err, errUnsupported):
		return reasonUnsupported
	default:
		return reasonError
	}
}

// extract runs the format for one file and applies its fallback.
// fellBack reports whether the returned content is synthetic.
func extract(ctx context.Context, f Format, path, name string) (content string, fellBack bool, err error) {
	if f.Extract == nil {
		err = errUnsupported
	} else {
		content, err = f.Extract(ctx, path)
	}
	if err == nil {
		return content, false, nil
	}
	if f.Fallback == nil {
		return "", false, err
	}
	return f.Fallback(domdoc.BaseName(name)), true, err
}
