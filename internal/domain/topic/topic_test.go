package topic

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefault_Order(t *testing.T) {
	c := Default()
	want := []Tag{
		"onboarding", "setup", "tools", "communication", "timeoff", "remote", "expenses",
		"benefits", "perks", "culture", "hr", "leave", "schedule",
	}
	if got := c.Tags(); !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected tags:\ngot:  %v\nwant: %v", got, want)
	}
}

func TestClassify(t *testing.T) {
	c := Default()
	tests := []struct {
		text string
		want []Tag
	}{
		{"How much PTO do I get?", []Tag{"timeoff"}},
		{"health insurance", []Tag{"benefits"}},
		{"Who do I ask about my laptop on my first day?", []Tag{"onboarding", "setup"}},
		{"sick leave policy", []Tag{"timeoff", "hr", "leave"}},
		{"xyzzy plugh", nil},
		// word boundaries: "vacations" is not "vacation", "holidays" is not "holiday"
		{"vacations and holidays", nil},
		{"TIME OFF", []Tag{"timeoff", "schedule"}},
	}
	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			got := c.Classify(tc.text)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Classify(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

func TestMatch_UnknownTag(t *testing.T) {
	c := Default()
	if c.Match("nope", "anything") {
		t.Error("unknown tag must not match")
	}
	if !c.Match("benefits", "Our dental plan") {
		t.Error("expected benefits to match")
	}
}

func TestNewCatalog_Validation(t *testing.T) {
	tests := []struct {
		name string
		defs []Definition
	}{
		{"empty tag", []Definition{{Terms: []string{"a"}}}},
		{"duplicate", []Definition{{Tag: "a", Terms: []string{"x"}}, {Tag: "a", Terms: []string{"y"}}}},
		{"no matcher", []Definition{{Tag: "a"}}},
		{"both matchers", []Definition{{Tag: "a", Terms: []string{"x"}, Pattern: "y"}}},
		{"bad pattern", []Definition{{Tag: "a", Pattern: "("}}},
		{"blank term", []Definition{{Tag: "a", Terms: []string{" "}}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewCatalog(tc.defs); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNewCatalog_PatternAndQuoting(t *testing.T) {
	c, err := NewCatalog([]Definition{
		{Tag: "money", Pattern: `\$\d+|dollars?`},
		{Tag: "plus", Terms: []string{"c++"}},
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	if !c.Match("money", "it costs 20 DOLLARS") {
		t.Error("expected pattern topic to match case-insensitively")
	}
	if c.Match("plus", "cxx") {
		t.Error("term must be matched literally")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topics.yaml")
	data := []byte("topics:\n  - tag: security\n    terms: [vpn, 2fa]\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if c.Len() != 1 || !c.Match("security", "Set up the VPN") {
		t.Errorf("unexpected catalog: %v", c.Tags())
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Parse([]byte("topics: []")); err == nil {
		t.Error("expected error for empty catalog")
	}
}
