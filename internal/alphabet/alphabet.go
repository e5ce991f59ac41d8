// Package alphabet defines ordered alphabets, their normalization tables and
// per-letter duration tables.
package alphabet

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Alphabet is an ordered, duplicate-free sequence of letters. A letter's
// position is its rank; index 0 is the lowest rank.
type Alphabet struct {
	name      string
	letters   []rune
	index     map[rune]int
	normalize map[rune]rune
	durations map[rune]int
	foldMarks bool
}

// Option customizes an Alphabet during construction.
type Option func(*options)

type options struct {
	normalize     map[rune]rune
	durations     map[rune]int
	foldMarks     bool
	requireSorted bool
}

// WithNormalization sets the substitution table applied to every input rune.
func WithNormalization(table map[rune]rune) Option {
	return func(o *options) {
		o.normalize = table
	}
}

// WithDurations sets the per-letter duration table, in seconds.
func WithDurations(table map[rune]int) Option {
	return func(o *options) {
		o.durations = table
	}
}

// WithMarkFolding strips combining marks (NFD, drop Mn, NFC) before the
// normalization table is applied.
func WithMarkFolding() Option {
	return func(o *options) {
		o.foldMarks = true
	}
}

// RequireSorted rejects letters that are not in ascending code point order.
func RequireSorted() Option {
	return func(o *options) {
		o.requireSorted = true
	}
}

// New builds an Alphabet from its letters in rank order.
func New(name, letters string, opts ...Option) (*Alphabet, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("alphabet name is empty")
	}
	if letters == "" {
		return nil, fmt.Errorf("alphabet %q has no letters", name)
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	seq := []rune(letters)
	index := make(map[rune]int, len(seq))
	for i, r := range seq {
		if prev, ok := index[r]; ok {
			return nil, fmt.Errorf("%w: %q at positions %d and %d of %q", ErrDuplicateLetter, r, prev, i, name)
		}
		if o.requireSorted && i > 0 && r < seq[i-1] {
			return nil, fmt.Errorf("%w: %q follows %q in %q", ErrUnsorted, r, seq[i-1], name)
		}
		index[r] = i
	}

	a := &Alphabet{
		name:      name,
		letters:   seq,
		index:     index,
		normalize: copyRuneMap(o.normalize),
		foldMarks: o.foldMarks,
	}
	if len(o.durations) > 0 {
		a.durations = make(map[rune]int, len(o.durations))
		for r, secs := range o.durations {
			a.durations[r] = secs
		}
	}
	return a, nil
}

// Name returns the alphabet's registry name.
func (a *Alphabet) Name() string {
	return a.name
}

// Len returns the number of letters.
func (a *Alphabet) Len() int {
	return len(a.letters)
}

// Letter returns the letter at rank i.
func (a *Alphabet) Letter(i int) rune {
	return a.letters[i]
}

// Letters returns a copy of the letters in rank order.
func (a *Alphabet) Letters() []rune {
	out := make([]rune, len(a.letters))
	copy(out, a.letters)
	return out
}

// Index reports the rank of r, if r is a letter of the alphabet.
func (a *Alphabet) Index(r rune) (int, bool) {
	i, ok := a.index[r]
	return i, ok
}

// String returns the letters as a string.
func (a *Alphabet) String() string {
	return string(a.letters)
}

// Normalize maps r through the substitution table; runes absent from the
// table map to themselves.
func (a *Alphabet) Normalize(r rune) rune {
	if mapped, ok := a.normalize[r]; ok {
		return mapped
	}
	return r
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeWord returns the normalized runes of word, one per input rune
// unless mark folding merged combining sequences.
func (a *Alphabet) NormalizeWord(word string) []rune {
	if a.foldMarks {
		if folded, _, err := transform.String(stripMarks, word); err == nil {
			word = folded
		}
	}
	out := make([]rune, 0, len(word))
	for _, r := range word {
		out = append(out, a.Normalize(r))
	}
	return out
}

func copyRuneMap(in map[rune]rune) map[rune]rune {
	out := make(map[rune]rune, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
