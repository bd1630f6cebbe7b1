package document

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestFilenameFallback(t *testing.T) {
	got := FilenameFallback("PDF Document")("1700000000-new_hire-guide")
	want := "[PDF Document: 1700000000-new_hire-guide] - Key topics from filename: 1700000000 new hire guide"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRegistry_UnknownExtensionReadsText(t *testing.T) {
	r := NewRegistry(0)
	if f := r.For("rst"); f.Name != "text" {
		t.Errorf("expected text format, got %q", f.Name)
	}
	if f := r.For("pdf"); f.Name != "pdf" || !f.Cacheable {
		t.Errorf("unexpected pdf format: %+v", f)
	}
}

func TestFallbackReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("extract: %w", context.DeadlineExceeded), reasonTimeout},
		{errEmptyText, reasonEmpty},
		{errUnsupported, reasonUnsupported},
		{errors.New("bad xref"), reasonError},
	}
	for _, tt := range tests {
		if got := fallbackReason(tt.err); got != tt.want {
			t.Errorf("fallbackReason(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestExtract_NoFallbackPropagatesError(t *testing.T) {
	f := Format{Name: "text", Extract: ReadText}
	_, fellBack, err := extract(context.Background(), f, "/nonexistent/file.txt", "file.txt")
	if err == nil || fellBack {
		t.Errorf("expected plain error, got fellBack=%v err=%v", fellBack, err)
	}
}
