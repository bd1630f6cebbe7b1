// Package topic holds the catalog of semantic categories a query or a document
// can be classified into by lexical cues.
package topic

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Tag is a topic label such as "benefits" or "timeoff".
type Tag string

// Definition is the on-disk form of a topic.
// Terms are matched literally; Pattern is a raw regular expression.
// Both are case-insensitive and word-bounded.
type Definition struct {
	Tag     Tag      `yaml:"tag"`
	Terms   []string `yaml:"terms,omitempty"`
	Pattern string   `yaml:"pattern,omitempty"`
}

type catalogFile struct {
	Topics []Definition `yaml:"topics"`
}

// Topic is a compiled catalog entry.
type Topic struct {
	tag Tag
	re  *regexp.Regexp
}

// Tag returns the topic label.
func (t *Topic) Tag() Tag { return t.tag }

// Matches reports whether the topic pattern occurs anywhere in text.
func (t *Topic) Matches(text string) bool { return t.re.MatchString(text) }

// Catalog is an ordered, immutable set of topics. Safe for concurrent use.
type Catalog struct {
	topics []Topic
	index  map[Tag]int
}

// NewCatalog compiles definitions into a catalog, preserving their order.
func NewCatalog(defs []Definition) (*Catalog, error) {
	c := &Catalog{
		topics: make([]Topic, 0, len(defs)),
		index:  make(map[Tag]int, len(defs)),
	}
	for i, d := range defs {
		if d.Tag == "" {
			return nil, fmt.Errorf("topic #%d: tag is required", i)
		}
		if _, dup := c.index[d.Tag]; dup {
			return nil, fmt.Errorf("topic %q: duplicate tag", d.Tag)
		}
		re, err := compile(d)
		if err != nil {
			return nil, fmt.Errorf("topic %q: %w", d.Tag, err)
		}
		c.index[d.Tag] = len(c.topics)
		c.topics = append(c.topics, Topic{tag: d.Tag, re: re})
	}
	return c, nil
}

func compile(d Definition) (*regexp.Regexp, error) {
	var body string
	switch {
	case d.Pattern != "" && len(d.Terms) > 0:
		return nil, fmt.Errorf("terms and pattern are mutually exclusive")
	case d.Pattern != "":
		body = d.Pattern
	case len(d.Terms) > 0:
		quoted := make([]string, 0, len(d.Terms))
		for _, term := range d.Terms {
			term = strings.TrimSpace(term)
			if term == "" {
				return nil, fmt.Errorf("empty term")
			}
			quoted = append(quoted, regexp.QuoteMeta(term))
		}
		body = strings.Join(quoted, "|")
	default:
		return nil, fmt.Errorf("terms or pattern is required")
	}

	re, err := regexp.Compile(`(?i)\b(?:` + body + `)\b`)
	if err != nil {
		return nil, fmt.Errorf("compile pattern: %w", err)
	}
	return re, nil
}

// Parse reads a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse topic catalog: %w", err)
	}
	if len(f.Topics) == 0 {
		return nil, fmt.Errorf("topic catalog is empty")
	}
	return NewCatalog(f.Topics)
}

// LoadFile reads a YAML catalog from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read topic catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Default returns the built-in onboarding catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic("topic: invalid built-in catalog: " + err.Error())
	}
	return c
}

// Classify returns every tag whose pattern matches text, in catalog order.
func (c *Catalog) Classify(text string) []Tag {
	var tags []Tag
	for i := range c.topics {
		if c.topics[i].Matches(text) {
			tags = append(tags, c.topics[i].tag)
		}
	}
	return tags
}

// Match reports whether the topic with the given tag matches text.
// Unknown tags never match.
func (c *Catalog) Match(tag Tag, text string) bool {
	i, ok := c.index[tag]
	if !ok {
		return false
	}
	return c.topics[i].Matches(text)
}

// Tags returns all tags in catalog order.
func (c *Catalog) Tags() []Tag {
	tags := make([]Tag, len(c.topics))
	for i := range c.topics {
		tags[i] = c.topics[i].tag
	}
	return tags
}

// Len returns the number of topics.
func (c *Catalog) Len() int { return len(c.topics) }
