// Package knowledge implements the static text knowledge base behind the
// RAG proxy.
//
// The knowledge base is a flat UTF-8 text file split into sections on
// blank lines. It is loaded once at startup and treated as immutable;
// retrieval is keyword scoring over the sections, not a vector search.
package knowledge

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

const (
	// maxSections is how many matching sections a search returns.
	maxSections = 4

	// overviewSections is how many leading sections serve as the
	// fallback context when nothing matches.
	overviewSections = 3

	// minWordLen filters stopword-sized tokens from overlap scoring.
	minWordLen = 4

	categoryWeight = 10
	overlapWeight  = 1
)

// categories groups related query terms so "metro" finds the section
// that only says "subway". A category scores when the query and the
// section each contain at least one of its terms.
var categories = map[string][]string{
	"coffee":     {"coffee", "café", "cafe", "espresso"},
	"chinese":    {"chinese", "dragon", "wok"},
	"sri lankan": {"sri lankan", "ceylon", "spice"},
	"washroom":   {"washroom", "toilet", "restroom", "bathroom"},
	"conference": {"conference", "hall", "meeting"},
	"subway":     {"subway", "metro", "train"},
	"parking":    {"parking", "park", "car"},
	"food":       {"food", "eat", "restaurant", "dining"},
	"shop":       {"shop", "store", "shopping"},
	"offer":      {"offer", "discount", "sale", "deal", "special"},
}

// Base is an immutable, in-memory knowledge base.
type Base struct {
	raw      string
	sections []string
}

// Load reads a knowledge base from a text file.
func Load(path string) (*Base, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load knowledge base: %w", err)
	}
	return New(string(data)), nil
}

// New builds a knowledge base from raw text. Empty text is legal and
// yields a base that never returns context.
func New(raw string) *Base {
	var sections []string
	for _, s := range strings.Split(raw, "\n\n") {
		if strings.TrimSpace(s) != "" {
			sections = append(sections, strings.TrimSpace(s))
		}
	}
	return &Base{raw: raw, sections: sections}
}

// Loaded reports whether the base holds any content.
func (b *Base) Loaded() bool {
	return len(b.sections) > 0
}

// Size returns the raw content length in bytes.
func (b *Base) Size() int {
	return len(b.raw)
}

// Sections returns the number of sections.
func (b *Base) Sections() int {
	return len(b.sections)
}

// Search returns the sections most relevant to the query, joined by
// blank lines. A query with no matches falls back to the leading
// overview sections; an empty base returns "".
func (b *Base) Search(query string) string {
	if len(b.sections) == 0 {
		return ""
	}

	queryLower := strings.ToLower(query)
	queryWords := contentWords(queryLower)

	type scored struct {
		score   int
		section string
	}
	var hits []scored

	for _, section := range b.sections {
		sectionLower := strings.ToLower(section)
		score := 0

		for _, terms := range categories {
			if containsAny(queryLower, terms) && containsAny(sectionLower, terms) {
				score += categoryWeight
			}
		}

		for _, word := range queryWords {
			if strings.Contains(sectionLower, word) {
				score += overlapWeight
			}
		}

		if score > 0 {
			hits = append(hits, scored{score, section})
		}
	}

	if len(hits) == 0 {
		n := overviewSections
		if n > len(b.sections) {
			n = len(b.sections)
		}
		return strings.Join(b.sections[:n], "\n\n")
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})
	if len(hits) > maxSections {
		hits = hits[:maxSections]
	}

	parts := make([]string, len(hits))
	for i, h := range hits {
		parts[i] = h.section
	}
	return strings.Join(parts, "\n\n")
}

// contentWords splits text into words long enough to carry meaning.
func contentWords(text string) []string {
	var words []string
	for _, w := range strings.Fields(text) {
		w = strings.Trim(w, ".,!?;:\"'()")
		if len(w) >= minWordLen {
			words = append(words, w)
		}
	}
	return words
}

// containsAny reports whether text contains any of the terms.
func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}
