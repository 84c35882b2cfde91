package pos

import (
	"fmt"
	"sync"

	"github.com/QTest-hq/reporeport/internal/metrics"
)

// verbTags are the tagger labels treated as verbs. Covers Penn Treebank
// verb forms, Brown corpus "be" forms and the universal VERB tag.
var verbTags = map[string]struct{}{
	"VB":   {},
	"VBZ":  {},
	"VBN":  {},
	"VBG":  {},
	"VBD":  {},
	"BE":   {},
	"BEG":  {},
	"BEM":  {},
	"BER":  {},
	"BEZ":  {},
	"BEN":  {},
	"BED":  {},
	"BEDZ": {},
	"VERB": {},
}

// IsVerbTag reports whether tag denotes a verb.
func IsVerbTag(tag string) bool {
	_, ok := verbTags[tag]
	return ok
}

// VerbTags returns a copy of the verb tag set.
func VerbTags() []string {
	tags := make([]string, 0, len(verbTags))
	for t := range verbTags {
		tags = append(tags, t)
	}
	return tags
}

// ClassificationError is returned when the tagger cannot process a word.
type ClassificationError struct {
	Word string
	Err  error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classify %q: %v", e.Word, e.Err)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}

// Classifier decides whether single words are verbs.
// It is safe for concurrent use.
type Classifier struct {
	tagger Tagger

	mu    sync.RWMutex
	cache map[string]bool
}

// Option configures a Classifier
type Option func(*Classifier)

// WithoutCache disables memoization of tagger results
func WithoutCache() Option {
	return func(c *Classifier) {
		c.cache = nil
	}
}

// NewClassifier creates a classifier backed by tagger
func NewClassifier(tagger Tagger, opts ...Option) *Classifier {
	c := &Classifier{
		tagger: tagger,
		cache:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsVerb reports whether the tagger labels word as a verb.
// The empty word is never a verb and never reaches the tagger.
func (c *Classifier) IsVerb(word string) (bool, error) {
	if word == "" {
		return false, nil
	}

	if c.cache != nil {
		c.mu.RLock()
		verb, ok := c.cache[word]
		c.mu.RUnlock()
		metrics.CacheLookup(ok)
		if ok {
			return verb, nil
		}
	}

	metrics.TaggerCalled()
	tagged, err := c.tagger.Tag([]string{word})
	if err != nil {
		return false, &ClassificationError{Word: word, Err: err}
	}
	if len(tagged) == 0 {
		return false, &ClassificationError{Word: word, Err: fmt.Errorf("tagger returned no tokens")}
	}

	verb := IsVerbTag(tagged[0].Tag)

	if c.cache != nil {
		c.mu.Lock()
		c.cache[word] = verb
		c.mu.Unlock()
	}

	return verb, nil
}

// CacheSize returns the number of memoized words
func (c *Classifier) CacheSize() int {
	if c.cache == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}
