package partition

import (
	"bufio"
	"fmt"
	"iter"
	"os"
	"path/filepath"

	"github.com/verte-zerg/kathe/internal/alphabet"
	"github.com/verte-zerg/kathe/internal/classify"
)

// SkippedFileName is the file holding unclassified words.
const SkippedFileName = "skipped.txt"

// BucketFileName names the file for the bucket at rank.
func BucketFileName(rank int, letter rune) string {
	return fmt.Sprintf("%02d-%c.txt", rank, letter)
}

// WriteOptions configures a partition write.
type WriteOptions struct {
	// Dir receives the bucket files. It is created if missing.
	Dir string
	// Durations appends " (M:SS)" to words whose duration is defined.
	Durations bool
}

type destination struct {
	path    string
	tmp     *os.File
	writer  *bufio.Writer
	renamed bool
}

// Writer stages every bucket file as a temp file in the target directory and
// moves them into place on Commit.
type Writer struct {
	opts    WriteOptions
	tally   Tally
	buckets []*destination
	skipped *destination
	done    bool
}

// NewWriter creates the target directory and opens one destination per
// letter plus one for skipped words.
func NewWriter(a *alphabet.Alphabet, opts WriteOptions) (*Writer, error) {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	dir := filepath.Clean(opts.Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	w := &Writer{opts: opts, tally: newTally(a)}

	skipped, err := openDestination(dir, SkippedFileName)
	if err != nil {
		return nil, err
	}
	w.skipped = skipped
	for i, letter := range a.Letters() {
		dest, err := openDestination(dir, BucketFileName(i, letter))
		if err != nil {
			w.Abort()
			return nil, err
		}
		w.buckets = append(w.buckets, dest)
	}
	return w, nil
}

const outputFileMode os.FileMode = 0o644

func openDestination(dir, name string) (*destination, error) {
	tmp, err := os.CreateTemp(dir, "."+name+"-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", name, err)
	}
	// CreateTemp opens with 0600 and the rename keeps the mode set here.
	if err := tmp.Chmod(outputFileMode); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to set mode on %s: %w", name, err)
	}
	return &destination{
		path:   filepath.Join(dir, name),
		tmp:    tmp,
		writer: bufio.NewWriter(tmp),
	}, nil
}

// Add routes one result to its destination.
func (w *Writer) Add(res classify.Result) error {
	if w.done {
		return fmt.Errorf("partition writer already closed")
	}
	w.tally.add(res)
	if !res.Classified() {
		return w.skipped.writeLine(res.Word)
	}
	line := res.Word
	if w.opts.Durations && res.HasDuration {
		line = fmt.Sprintf("%s (%s)", res.Word, alphabet.FormatDuration(res.Duration))
	}
	return w.buckets[res.Bucket].writeLine(line)
}

func (d *destination) writeLine(line string) error {
	if _, err := fmt.Fprintln(d.writer, line); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(d.path), err)
	}
	return nil
}

// Commit flushes every destination and renames it into place, including
// buckets that received no words.
func (w *Writer) Commit() (Tally, error) {
	if w.done {
		return Tally{}, fmt.Errorf("partition writer already closed")
	}
	all := w.destinations()
	for _, d := range all {
		if err := d.writer.Flush(); err != nil {
			w.Abort()
			return Tally{}, fmt.Errorf("failed to flush %s: %w", filepath.Base(d.path), err)
		}
		if err := d.tmp.Close(); err != nil {
			w.Abort()
			return Tally{}, fmt.Errorf("failed to close %s: %w", filepath.Base(d.path), err)
		}
	}
	for _, d := range all {
		if err := os.Rename(d.tmp.Name(), d.path); err != nil {
			w.Abort()
			return Tally{}, fmt.Errorf("failed to write %s: %w", filepath.Base(d.path), err)
		}
		d.renamed = true
	}
	w.done = true
	return w.tally, nil
}

// Abort closes and removes every staged file not yet committed. It is safe
// to call after Commit.
func (w *Writer) Abort() {
	if w.done {
		return
	}
	w.done = true
	for _, d := range w.destinations() {
		if d.renamed {
			continue
		}
		_ = d.tmp.Close()
		_ = os.Remove(d.tmp.Name())
	}
}

func (w *Writer) destinations() []*destination {
	all := make([]*destination, 0, len(w.buckets)+1)
	all = append(all, w.buckets...)
	if w.skipped != nil {
		all = append(all, w.skipped)
	}
	return all
}

// Write consumes results into bucket files under opts.Dir and returns the
// resulting tally.
func Write(results iter.Seq[classify.Result], a *alphabet.Alphabet, opts WriteOptions) (Tally, error) {
	w, err := NewWriter(a, opts)
	if err != nil {
		return Tally{}, err
	}
	defer w.Abort()
	for res := range results {
		if err := w.Add(res); err != nil {
			return Tally{}, err
		}
	}
	return w.Commit()
}
