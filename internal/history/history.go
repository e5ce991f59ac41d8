// Package history records partition runs and renders them as text tables.
package history

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/verte-zerg/kathe/internal/model"
	"github.com/verte-zerg/kathe/internal/partition"
	"github.com/verte-zerg/kathe/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

// BucketCounts converts a tally to storable bucket counts.
func BucketCounts(t partition.Tally) []model.BucketCount {
	out := make([]model.BucketCount, len(t.Letters))
	for i, letter := range t.Letters {
		out[i] = model.BucketCount{Rank: i, Letter: string(letter), Words: t.Counts[i]}
	}
	return out
}

// NewRun describes a finished run of cfg.
func NewRun(cfg model.Config, t partition.Tally, started, ended time.Time) model.Run {
	return model.Run{
		StartedAt:       started,
		EndedAt:         ended,
		WordListPath:    cfg.WordListPath,
		Alphabet:        cfg.Alphabet,
		AllowRepetition: cfg.AllowRepetition,
		Mode:            cfg.Mode(),
		OutputDir:       cfg.SaveDir,
		Total:           t.Total(),
		Skipped:         t.Skipped,
		DurationMs:      ended.Sub(started).Milliseconds(),
	}
}

// Record stores a finished run and its bucket counts.
func Record(ctx context.Context, st *store.Store, cfg model.Config, t partition.Tally, started, ended time.Time) (int64, error) {
	id, err := st.InsertRun(ctx, NewRun(cfg, t, started, ended), BucketCounts(t))
	if err != nil {
		return 0, fmt.Errorf("failed to record run: %w", err)
	}
	return id, nil
}

// RenderRuns prints recorded runs as an aligned table.
func RenderRuns(w io.Writer, runs []model.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded.")
		return err
	}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, RunRow(r))
	}
	return writeLines(w, formatTable(RunHeaders, rows, map[int]bool{0: true, 4: true, 5: true}))
}

// RunHeaders names the columns of RunRow.
var RunHeaders = []string{"ID", "Ended", "Alphabet", "Mode", "Words", "Skipped", "Repeat", "Word list"}

// RunRow formats one run as table cells.
func RunRow(r model.Run) []string {
	repeat := "no"
	if r.AllowRepetition {
		repeat = "yes"
	}
	return []string{
		strconv.FormatInt(r.ID, 10),
		r.EndedAt.Local().Format(timeLayout),
		r.Alphabet,
		string(r.Mode),
		strconv.Itoa(r.Total),
		strconv.Itoa(r.Skipped),
		repeat,
		r.WordListPath,
	}
}

// RenderBuckets prints one run's bucket counts with each letter's share of
// the classified words.
func RenderBuckets(w io.Writer, counts []model.BucketCount) error {
	if len(counts) == 0 {
		_, err := fmt.Fprintln(w, "No bucket counts for run.")
		return err
	}
	total := 0
	for _, c := range counts {
		total += c.Words
	}
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		share := 0.0
		if total > 0 {
			share = float64(c.Words) / float64(total) * 100
		}
		rows = append(rows, []string{
			fmt.Sprintf("%02d", c.Rank),
			c.Letter,
			strconv.Itoa(c.Words),
			fmt.Sprintf("%.1f%%", share),
		})
	}
	return writeLines(w, formatTable([]string{"Rank", "Letter", "Words", "Share"}, rows, map[int]bool{2: true, 3: true}))
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
