// Package partition consumes classification results, either counting them
// per bucket or writing each bucket to its own file.
package partition

import (
	"iter"

	"github.com/verte-zerg/kathe/internal/alphabet"
	"github.com/verte-zerg/kathe/internal/classify"
)

// Tally holds per-bucket word counts for one alphabet.
type Tally struct {
	Letters []rune
	Counts  []int
	Skipped int
}

func newTally(a *alphabet.Alphabet) Tally {
	return Tally{
		Letters: a.Letters(),
		Counts:  make([]int, a.Len()),
	}
}

func (t *Tally) add(res classify.Result) {
	if res.Classified() {
		t.Counts[res.Bucket]++
		return
	}
	t.Skipped++
}

// Total returns the number of words seen, classified or skipped.
func (t Tally) Total() int {
	total := t.Skipped
	for _, n := range t.Counts {
		total += n
	}
	return total
}

// Count consumes results and tallies them per bucket.
func Count(results iter.Seq[classify.Result], a *alphabet.Alphabet) Tally {
	tally := newTally(a)
	for res := range results {
		tally.add(res)
	}
	return tally
}
