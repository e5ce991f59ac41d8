package alphabet

import "fmt"

// HasDurations reports whether the alphabet carries a duration table.
func (a *Alphabet) HasDurations() bool {
	return len(a.durations) > 0
}

// Duration sums the duration of each normalized rune. It reports false when
// any rune has no entry.
func (a *Alphabet) Duration(normalized []rune) (int, bool) {
	if len(a.durations) == 0 {
		return 0, false
	}
	total := 0
	for _, r := range normalized {
		secs, ok := a.durations[r]
		if !ok {
			return 0, false
		}
		total += secs
	}
	return total, true
}

// FormatDuration renders seconds as M:SS.
func FormatDuration(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
