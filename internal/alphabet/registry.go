package alphabet

import (
	"fmt"
	"sort"
	"strings"
)

// Registry maps names to alphabets.
type Registry struct {
	byName map[string]*Alphabet
}

// NewRegistry returns a registry holding the given alphabets.
func NewRegistry(alphabets ...*Alphabet) *Registry {
	r := &Registry{byName: make(map[string]*Alphabet, len(alphabets))}
	for _, a := range alphabets {
		r.Add(a)
	}
	return r
}

// Add registers a, replacing any alphabet with the same name.
func (r *Registry) Add(a *Alphabet) {
	r.byName[a.Name()] = a
}

// Lookup returns the alphabet registered under name.
func (r *Registry) Lookup(name string) (*Alphabet, error) {
	a, ok := r.byName[strings.TrimSpace(name)]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownAlphabet, name, strings.Join(r.Names(), ", "))
	}
	return a, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builtin alphabet names.
const (
	Latin  = "latin"
	Greek  = "greek"
	Garuda = "garuda"
)

// DefaultName is the alphabet used when none is configured.
const DefaultName = Greek

// greekNormalization folds accented and final forms onto the base letters.
var greekNormalization = map[rune]rune{
	// tonos and dialytika
	'ά': 'α',
	'έ': 'ε',
	'ή': 'η',
	'ί': 'ι',
	'ΰ': 'υ',
	'ϊ': 'ι',
	'ϋ': 'υ',
	'ό': 'ο',
	'ύ': 'υ',
	'ώ': 'ω',

	// final sigma
	'ς': 'σ',
}

// songLengths holds the length in seconds of the song for each letter.
var songLengths = map[rune]int{
	'α': 249,
	'β': 139,
	'γ': 360,
	'δ': 360,
	'ε': 42,
	'ζ': 330,
	'η': 300,
	'θ': 210,
}

// Builtins returns a registry with the latin, greek and garuda alphabets.
func Builtins() *Registry {
	return NewRegistry(
		mustNew(Latin, "abcdefghijklmnopqrstuvwxyz", RequireSorted()),
		mustNew(Greek, "αβγδεζηθικλμνξοπρστυφχψω",
			RequireSorted(), WithNormalization(greekNormalization), WithDurations(songLengths)),
		// garuda swaps γ after δε and η before ζ, so it cannot require sorting.
		mustNew(Garuda, "αβδεγηζθικλμνξοπρστυφχψω",
			WithNormalization(greekNormalization), WithDurations(songLengths)),
	)
}

func mustNew(name, letters string, opts ...Option) *Alphabet {
	a, err := New(name, letters, opts...)
	if err != nil {
		panic(err)
	}
	return a
}
