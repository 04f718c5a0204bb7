// Package catalog holds the ordered, immutable registry of sample workflows
// the target application exposes under its "Samples" menu.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSample is returned when a key or label is not in the catalog.
var ErrUnknownSample = errors.New("unknown sample")

// Entry is a single sample workflow.
type Entry struct {
	// Key is a short identifier, used in file names and on the command line.
	Key string `yaml:"key" json:"key"`
	// Label is the workflow name exactly as the UI renders it.
	Label string `yaml:"label" json:"label"`
}

// Slug returns a file-name friendly form of the label.
func (e Entry) Slug() string {
	return Slugify(e.Label)
}

// Catalog is an ordered set of entries. The zero value is an empty catalog.
type Catalog struct {
	entries []Entry
}

// New builds a catalog, preserving declaration order. Keys and labels must be
// non-empty and unique.
func New(entries ...Entry) (*Catalog, error) {
	keys := make(map[string]struct{}, len(entries))
	labels := make(map[string]struct{}, len(entries))

	out := make([]Entry, 0, len(entries))
	for i, e := range entries {
		e.Key = strings.TrimSpace(e.Key)
		if e.Key == "" {
			return nil, fmt.Errorf("sample %d: key is required", i)
		}
		if strings.TrimSpace(e.Label) == "" {
			return nil, fmt.Errorf("sample %q: label is required", e.Key)
		}
		if _, dup := keys[e.Key]; dup {
			return nil, fmt.Errorf("duplicate sample key %q", e.Key)
		}
		if _, dup := labels[e.Label]; dup {
			return nil, fmt.Errorf("duplicate sample label %q", e.Label)
		}
		keys[e.Key] = struct{}{}
		labels[e.Label] = struct{}{}
		out = append(out, e)
	}

	return &Catalog{entries: out}, nil
}

// MustNew is like New but panics on invalid input. Intended for literals.
func MustNew(entries ...Entry) *Catalog {
	c, err := New(entries...)
	if err != nil {
		panic(err)
	}
	return c
}

// Default returns the samples shipped with the target application, in the
// order they appear in its menu.
func Default() *Catalog {
	return MustNew(
		Entry{Key: "summarizer", Label: "Document Summarizer"},
		Entry{Key: "rag", Label: "RAG Pipeline"},
		Entry{Key: "multi-agent", Label: "Multi-Agent Analysis"},
		Entry{Key: "keyword-router", Label: "Keyword Router"},
		Entry{Key: "llm-judge-router", Label: "LLM Judge Router"},
		Entry{Key: "refine-loop", Label: "Refine Loop"},
	)
}

// Entries returns a copy of the entries in declaration order.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Labels returns every label in declaration order.
func (c *Catalog) Labels() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.Label)
	}
	return out
}

// Lookup finds an entry whose label or key equals name exactly.
// Labels are tried first so a label can never be shadowed by another
// entry's key.
func (c *Catalog) Lookup(name string) (Entry, error) {
	if c != nil {
		for _, e := range c.entries {
			if e.Label == name {
				return e, nil
			}
		}
		for _, e := range c.entries {
			if e.Key == name {
				return e, nil
			}
		}
	}
	return Entry{}, fmt.Errorf("%w: %q", ErrUnknownSample, name)
}

// Slugify lowercases s and replaces runs of non-alphanumeric characters with
// a single dash.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
