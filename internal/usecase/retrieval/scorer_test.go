package retrieval

import (
	"strings"
	"testing"

	domdoc "github.com/kailas-cloud/docqa/internal/domain/document"
	"github.com/kailas-cloud/docqa/internal/domain/search/query"
	"github.com/kailas-cloud/docqa/internal/domain/topic"
)

func scoreDoc(t *testing.T, name, content string, tokens query.Tokens) (int, bool, string, int) {
	t.Helper()
	s := NewScorer(topic.Default())
	doc := domdoc.New(name, content)
	hit, ok := s.Score(&doc, &tokens)
	return hit.Score, ok, hit.Excerpt, hit.FirstIndex
}

func TestCountOccurrences(t *testing.T) {
	tests := []struct {
		text, needle string
		count, first int
	}{
		{"aaaa", "aa", 2, 0},
		{"abcabc", "bc", 2, 1},
		{"hello", "xyz", 0, -1},
		{"hello", "", 0, -1},
	}
	for _, tt := range tests {
		count, first := countOccurrences(tt.text, tt.needle)
		if count != tt.count || first != tt.first {
			t.Errorf("countOccurrences(%q, %q) = %d, %d; want %d, %d",
				tt.text, tt.needle, count, first, tt.count, tt.first)
		}
	}
}

func TestScore_PhraseBonusAndTopic(t *testing.T) {
	content := "Our health insurance plan covers dental and vision."
	tokens := query.New([]string{"health insurance"}, nil, []topic.Tag{"benefits"})

	score, ok, excerpt, first := scoreDoc(t, "benefits.md", content, tokens)
	if !ok {
		t.Fatal("expected a hit")
	}
	// 15*1 token + 2*1 occurrence + 25*1 topic + 20 phrase + 15 early match.
	if score != 77 {
		t.Errorf("score = %d, want 77", score)
	}
	if first != 4 {
		t.Errorf("first = %d, want 4", first)
	}
	if excerpt != content {
		t.Errorf("excerpt = %q", excerpt)
	}
}

func TestScore_FilenameBonus(t *testing.T) {
	tokens := query.New(nil, []string{"vacation"}, nil)

	score, ok, excerpt, _ := scoreDoc(t, "vacation-policy.md", "Nothing relevant here.", tokens)
	if !ok {
		t.Fatal("expected a filename hit")
	}
	// 15*1 token + 2*5 filename occurrences, no position.
	if score != 25 {
		t.Errorf("score = %d, want 25", score)
	}
	if excerpt != "Nothing relevant here...." {
		t.Errorf("excerpt = %q", excerpt)
	}
}

func TestScore_TopicOnly(t *testing.T) {
	tokens := query.New(nil, []string{"xyzzy"}, []topic.Tag{"benefits"})

	score, ok, excerpt, _ := scoreDoc(t, "handbook.md", strings.Repeat("dental ", 100), tokens)
	if !ok {
		t.Fatal("expected topic-only hit")
	}
	if score != 25 {
		t.Errorf("score = %d, want 25", score)
	}
	if !strings.HasSuffix(excerpt, "...") || len([]rune(excerpt)) > 503 {
		t.Errorf("unexpected head excerpt (%d chars)", len([]rune(excerpt)))
	}
}

func TestScore_NoMatch(t *testing.T) {
	tokens := query.New(nil, []string{"xyzzy"}, []topic.Tag{"benefits"})
	if _, ok, _, _ := scoreDoc(t, "a.md", "nothing to see", tokens); ok {
		t.Error("expected no hit")
	}
	if _, ok, _, _ := scoreDoc(t, "a.md", "", tokens); ok {
		t.Error("expected no hit for empty content")
	}
}

func TestScore_EarlyMatchDecay(t *testing.T) {
	tokens := query.New(nil, []string{"zebra"}, nil)
	tests := []struct {
		offset int
		bonus  int
	}{
		{0, 15},
		{250, 13},
		{1499, 1},
		{1500, 0},
		{4000, 0},
	}
	for _, tt := range tests {
		content := strings.Repeat(".", tt.offset) + "zebra"
		score, ok, _, _ := scoreDoc(t, "doc.md", content, tokens)
		if !ok {
			t.Fatalf("offset %d: expected hit", tt.offset)
		}
		if want := 15 + 2 + tt.bonus; score != want {
			t.Errorf("offset %d: score = %d, want %d", tt.offset, score, want)
		}
	}
}

func TestScore_ExcerptBounded(t *testing.T) {
	tokens := query.New(nil, []string{"needle"}, nil)
	content := strings.Repeat("a", 1000) + "needle" + strings.Repeat("b", 1000)

	_, ok, excerpt, first := scoreDoc(t, "doc.md", content, tokens)
	if !ok {
		t.Fatal("expected hit")
	}
	if first != 1000 {
		t.Errorf("first = %d", first)
	}
	if !strings.HasPrefix(excerpt, "...") || !strings.HasSuffix(excerpt, "...") {
		t.Errorf("expected ellipses on both ends: %q", excerpt[:10])
	}
	if n := len([]rune(excerpt)); n != 550+6 {
		t.Errorf("excerpt length = %d, want 556", n)
	}
	if !strings.Contains(excerpt, "needle") {
		t.Error("excerpt must contain the match")
	}
}

func TestScore_OffsetsInCharacters(t *testing.T) {
	tokens := query.New(nil, []string{"vacation"}, nil)

	_, ok, _, first := scoreDoc(t, "doc.md", "Über café résumé VACATION", tokens)
	if !ok {
		t.Fatal("expected hit")
	}
	if first != 17 {
		t.Errorf("first = %d, want 17", first)
	}
}

func TestScore_FallbackContentMatchesFilenameWords(t *testing.T) {
	content := "[PDF Document: employee_time-off] - Key topics from filename: employee time off"
	tokens := query.New(nil, []string{"employee"}, nil)

	if _, ok, _, _ := scoreDoc(t, "employee_time-off.pdf", content, tokens); !ok {
		t.Error("expected fallback document to match")
	}
}
