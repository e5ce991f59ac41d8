// Package classify assigns words to alphabet buckets.
package classify

import (
	"iter"

	"github.com/verte-zerg/kathe/internal/alphabet"
)

// Unclassified is the bucket of words that were skipped.
const Unclassified = -1

// Result is the classification of one word.
type Result struct {
	// Bucket is the rank of the highest letter in the word, or Unclassified.
	Bucket int
	// Word is the input word as read.
	Word string
	// Duration is the word's duration in seconds, valid when HasDuration is set.
	Duration    int
	HasDuration bool
}

// Classified reports whether the word was assigned to a bucket.
func (r Result) Classified() bool {
	return r.Bucket != Unclassified
}

// Classifier buckets words against one alphabet.
type Classifier struct {
	alphabet        *alphabet.Alphabet
	allowRepetition bool
}

// New returns a Classifier for a. When allowRepetition is false, words that
// use a letter more than once are skipped.
func New(a *alphabet.Alphabet, allowRepetition bool) *Classifier {
	return &Classifier{alphabet: a, allowRepetition: allowRepetition}
}

// Classify assigns word to the bucket of the highest-ranked letter it uses.
func (c *Classifier) Classify(word string) Result {
	skipped := Result{Bucket: Unclassified, Word: word}

	normalized := c.alphabet.NormalizeWord(word)
	chars := make(map[rune]struct{}, len(normalized))
	for _, r := range normalized {
		if _, ok := c.alphabet.Index(r); !ok {
			return skipped
		}
		chars[r] = struct{}{}
	}
	if !c.allowRepetition && len(chars) != len(normalized) {
		return skipped
	}

	for i := c.alphabet.Len() - 1; i >= 0; i-- {
		if _, ok := chars[c.alphabet.Letter(i)]; !ok {
			continue
		}
		res := Result{Bucket: i, Word: word}
		res.Duration, res.HasDuration = c.alphabet.Duration(normalized)
		return res
	}
	// Only the empty word reaches here.
	return skipped
}

// Scan lazily classifies each word of words, in order, yielding exactly one
// result per word.
func (c *Classifier) Scan(words iter.Seq[string]) iter.Seq[Result] {
	return func(yield func(Result) bool) {
		for word := range words {
			if !yield(c.Classify(word)) {
				return
			}
		}
	}
}
