// Package pos classifies words by part of speech.
package pos

import (
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"
)

// TaggedWord is a word together with the part-of-speech tag assigned to it.
type TaggedWord struct {
	Word string
	Tag  string
}

// Tagger assigns a part-of-speech tag to every word of a sequence.
type Tagger interface {
	Tag(words []string) ([]TaggedWord, error)
}

// ProseTagger tags words with prose's averaged perceptron model
// (Penn Treebank tag set).
type ProseTagger struct{}

// NewProseTagger creates a tagger backed by prose
func NewProseTagger() *ProseTagger {
	return &ProseTagger{}
}

// Tag runs the tagger over words joined by spaces
func (t *ProseTagger) Tag(words []string) ([]TaggedWord, error) {
	doc, err := prose.NewDocument(
		strings.Join(words, " "),
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, fmt.Errorf("prose: %w", err)
	}

	tokens := doc.Tokens()
	tagged := make([]TaggedWord, 0, len(tokens))
	for _, tok := range tokens {
		tagged = append(tagged, TaggedWord{Word: tok.Text, Tag: tok.Tag})
	}
	return tagged, nil
}
