package retrieval

import (
	"reflect"
	"testing"

	"github.com/kailas-cloud/docqa/internal/domain/topic"
)

func TestAnalyze_PhrasesRemovedFromWords(t *testing.T) {
	a := NewAnalyzer(topic.Default(), false)
	tokens := a.Analyze(`What is the "Health Insurance" enrollment deadline?`)

	if got := tokens.Phrases(); !reflect.DeepEqual(got, []string{"health insurance"}) {
		t.Errorf("phrases = %v", got)
	}
	if got := tokens.Words(); !reflect.DeepEqual(got, []string{"enrollment", "deadline"}) {
		t.Errorf("words = %v", got)
	}
	if got := tokens.Topics(); !reflect.DeepEqual(got, []topic.Tag{"benefits"}) {
		t.Errorf("topics = %v", got)
	}
}

func TestAnalyze_TopicsFromRawQueryInCatalogOrder(t *testing.T) {
	a := NewAnalyzer(topic.Default(), false)
	tokens := a.Analyze(`Can I expense a "laptop" and book vacation?`)

	want := []topic.Tag{"setup", "timeoff", "expenses"}
	if got := tokens.Topics(); !reflect.DeepEqual(got, want) {
		t.Errorf("topics = %v, want %v", got, want)
	}
}

func TestAnalyze_WordFiltering(t *testing.T) {
	a := NewAnalyzer(topic.Default(), false)
	tokens := a.Analyze("Where's my W-2 form? a b c 401k 401k")

	// "where's" -> "where" + "s"; "s" is too short, "where" and "my" are stopwords.
	want := []string{"w-2", "form", "401k"}
	if got := tokens.Words(); !reflect.DeepEqual(got, want) {
		t.Errorf("words = %v, want %v", got, want)
	}
}

func TestAnalyze_StopwordsOnly(t *testing.T) {
	a := NewAnalyzer(topic.Default(), false)
	for _, q := range []string{"what is the", "How do I?", "a I x", `"x" and or`} {
		tokens := a.Analyze(q)
		if !tokens.IsEmpty() {
			t.Errorf("%q: expected empty tokens, got phrases=%v words=%v", q, tokens.Phrases(), tokens.Words())
		}
		for _, w := range tokens.Words() {
			if IsStopword(w) || len(w) < 2 {
				t.Errorf("%q: invalid word %q", q, w)
			}
		}
	}
}

func TestAnalyze_ShortOrBlankQuotes(t *testing.T) {
	a := NewAnalyzer(topic.Default(), false)
	tokens := a.Analyze(`"  " "ok" "a"`)

	if got := tokens.Phrases(); !reflect.DeepEqual(got, []string{"ok"}) {
		t.Errorf("phrases = %v", got)
	}
}

func TestAnalyze_Stemming(t *testing.T) {
	a := NewAnalyzer(topic.Default(), true)
	tokens := a.Analyze("benefits policies")

	want := []string{"benefit", "polici"}
	if got := tokens.Words(); !reflect.DeepEqual(got, want) {
		t.Errorf("words = %v, want %v", got, want)
	}
}
