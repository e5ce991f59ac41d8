package partition

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/verte-zerg/kathe/internal/alphabet"
	"github.com/verte-zerg/kathe/internal/classify"
)

func lookup(t *testing.T, name string) *alphabet.Alphabet {
	t.Helper()
	a, err := alphabet.Builtins().Lookup(name)
	if err != nil {
		t.Fatalf("lookup %s: %v", name, err)
	}
	return a
}

var sampleWords = []string{"αβ", "αα", "αχ", "hello", "", "άλφα", "βα", "ω", "αω"}

func TestCount(t *testing.T) {
	a := lookup(t, alphabet.Greek)
	c := classify.New(a, false)

	tally := Count(c.Scan(slices.Values(sampleWords)), a)
	if tally.Counts[1] != 2 {
		t.Fatalf("expected 2 words in β, got %d", tally.Counts[1])
	}
	if tally.Counts[21] != 1 {
		t.Fatalf("expected 1 word in χ, got %d", tally.Counts[21])
	}
	if tally.Counts[23] != 2 {
		t.Fatalf("expected 2 words in ω, got %d", tally.Counts[23])
	}
	if tally.Skipped != 4 {
		t.Fatalf("expected 4 skipped, got %d", tally.Skipped)
	}
	if tally.Total() != len(sampleWords) {
		t.Fatalf("expected total %d, got %d", len(sampleWords), tally.Total())
	}
}

func TestCountIsRepeatable(t *testing.T) {
	a := lookup(t, alphabet.Garuda)
	c := classify.New(a, true)
	first := Count(c.Scan(slices.Values(sampleWords)), a)
	second := Count(c.Scan(slices.Values(sampleWords)), a)
	if !slices.Equal(first.Counts, second.Counts) || first.Skipped != second.Skipped {
		t.Fatalf("counts differ between scans: %+v vs %+v", first, second)
	}
}

func TestCountSumMatchesInput(t *testing.T) {
	words := []string{"abc", "zz", "quiz", "", "naïve", "jump", "a", "fox"}
	for _, name := range []string{alphabet.Latin, alphabet.Greek, alphabet.Garuda} {
		for _, allow := range []bool{true, false} {
			a := lookup(t, name)
			tally := Count(classify.New(a, allow).Scan(slices.Values(words)), a)
			if tally.Total() != len(words) {
				t.Fatalf("%s allow=%v: total %d, want %d", name, allow, tally.Total(), len(words))
			}
		}
	}
}

func TestWriteReport(t *testing.T) {
	a, err := alphabet.New("abc", "abc")
	if err != nil {
		t.Fatalf("new alphabet: %v", err)
	}
	tally := Count(classify.New(a, false).Scan(slices.Values([]string{"a", "ab", "ba", "cc", "d"})), a)

	var buf bytes.Buffer
	if err := WriteReport(&buf, tally, false); err != nil {
		t.Fatalf("write report: %v", err)
	}
	expected := "Letter\tWords\na\t1\nb\t2\nc\t0\nskipped\t2\n"
	if buf.String() != expected {
		t.Fatalf("unexpected report:\n%q\nwant:\n%q", buf.String(), expected)
	}
}

func TestWriteCreatesAllBuckets(t *testing.T) {
	a := lookup(t, alphabet.Greek)
	dir := filepath.Join(t.TempDir(), "out", "nested")

	tally, err := Write(classify.New(a, false).Scan(slices.Values(sampleWords)), a, WriteOptions{Dir: dir, Durations: true})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if tally.Total() != len(sampleWords) {
		t.Fatalf("expected total %d, got %d", len(sampleWords), tally.Total())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != a.Len()+1 {
		t.Fatalf("expected %d files, got %d", a.Len()+1, len(entries))
	}
	for i, letter := range a.Letters() {
		if _, err := os.Stat(filepath.Join(dir, BucketFileName(i, letter))); err != nil {
			t.Fatalf("missing bucket file for %c: %v", letter, err)
		}
	}

	assertFile(t, filepath.Join(dir, "01-β.txt"), "αβ (6:28)\nβα (6:28)\n")
	assertFile(t, filepath.Join(dir, "21-χ.txt"), "αχ\n")
	assertFile(t, filepath.Join(dir, "23-ω.txt"), "ω\nαω\n")
	assertFile(t, filepath.Join(dir, "02-γ.txt"), "")
	assertFile(t, filepath.Join(dir, SkippedFileName), "αα\nhello\n\nάλφα\n")
}

func TestWriteFilesAreWorldReadable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	a := lookup(t, alphabet.Greek)
	dir := t.TempDir()
	if _, err := Write(classify.New(a, false).Scan(slices.Values([]string{"αβ", "αα"})), a, WriteOptions{Dir: dir}); err != nil {
		t.Fatalf("write: %v", err)
	}
	for _, name := range []string{"01-β.txt", "23-ω.txt", SkippedFileName} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("stat %s: %v", name, err)
		}
		if perm := info.Mode().Perm(); perm != 0o644 {
			t.Fatalf("%s mode = %v, want -rw-r--r--", name, perm)
		}
	}
}

func TestWriteWithoutDurations(t *testing.T) {
	a := lookup(t, alphabet.Greek)
	dir := t.TempDir()
	if _, err := Write(classify.New(a, false).Scan(slices.Values([]string{"αβ"})), a, WriteOptions{Dir: dir}); err != nil {
		t.Fatalf("write: %v", err)
	}
	assertFile(t, filepath.Join(dir, "01-β.txt"), "αβ\n")
}

func TestWriterAbortLeavesNothing(t *testing.T) {
	a := lookup(t, alphabet.Greek)
	dir := t.TempDir()
	w, err := NewWriter(a, WriteOptions{Dir: dir})
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	if err := w.Add(classify.New(a, false).Classify("αβ")); err != nil {
		t.Fatalf("add: %v", err)
	}
	w.Abort()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected empty dir after abort, got %s", strings.Join(names, ", "))
	}
	if _, err := w.Commit(); err == nil {
		t.Fatalf("expected commit after abort to fail")
	}
}

func TestWriteUnwritableDir(t *testing.T) {
	a := lookup(t, alphabet.Greek)
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	_, err := Write(classify.New(a, false).Scan(slices.Values([]string{"α"})), a, WriteOptions{Dir: filepath.Join(file, "sub")})
	if err == nil {
		t.Fatalf("expected error for directory under a file")
	}
	var pathErr *os.PathError
	if !errors.As(err, &pathErr) {
		t.Fatalf("expected path error, got %v", err)
	}
}

func TestBucketFileName(t *testing.T) {
	if got := BucketFileName(3, 'δ'); got != "03-δ.txt" {
		t.Fatalf("BucketFileName = %q", got)
	}
	if got := BucketFileName(123, 'x'); got != "123-x.txt" {
		t.Fatalf("BucketFileName = %q", got)
	}
}

func assertFile(t *testing.T, path, want string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if string(data) != want {
		t.Fatalf("%s = %q, want %q", filepath.Base(path), string(data), want)
	}
}
