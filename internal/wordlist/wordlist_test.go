package wordlist

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

func writeFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write word list: %v", err)
	}
	return path
}

func collect(t *testing.T, src *Source) []string {
	t.Helper()
	var words []string
	for w := range src.Words() {
		words = append(words, w)
	}
	return words
}

func TestOpenDecodesISO88597(t *testing.T) {
	encoded, err := charmap.ISO8859_7.NewEncoder().String("αβ\nάλφα  \n\nλόγος\r\n")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	path := writeFile(t, []byte(encoded))

	src, err := Open(path, "iso-8859-7")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		_ = src.Close()
	})

	words := collect(t, src)
	if err := src.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{"αβ", "άλφα", "", "λόγος"}
	if len(words) != len(expected) {
		t.Fatalf("expected %d words, got %d: %q", len(expected), len(words), words)
	}
	for i, w := range expected {
		if words[i] != w {
			t.Fatalf("word %d = %q, want %q", i, words[i], w)
		}
	}
}

func TestOpenUTF8RejectsInvalidBytes(t *testing.T) {
	path := writeFile(t, []byte("αβ\n\xff\xfe\n"))
	src, err := Open(path, "utf-8")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		_ = src.Close()
	})
	words := collect(t, src)
	if len(words) != 1 {
		t.Fatalf("expected 1 word before the error, got %d", len(words))
	}
	if !errors.Is(src.Err(), ErrEncodingMismatch) {
		t.Fatalf("expected ErrEncodingMismatch, got %v", src.Err())
	}
	if !strings.Contains(src.Err().Error(), "line 2") {
		t.Fatalf("expected line number in error: %v", src.Err())
	}
}

func TestOpenCharmapRejectsUnmappedBytes(t *testing.T) {
	// 0xAE is unassigned in ISO 8859-7.
	path := writeFile(t, []byte{'a', '\n', 0xAE, '\n'})
	src, err := Open(path, "iso-8859-7")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		_ = src.Close()
	})
	_ = collect(t, src)
	if !errors.Is(src.Err(), ErrEncodingMismatch) {
		t.Fatalf("expected ErrEncodingMismatch, got %v", src.Err())
	}
}

func TestOpenRejectsBytesOutsideEncoding(t *testing.T) {
	tests := []struct {
		name     string
		encoding string
		data     []byte
		words    int
		line     string
	}{
		{"ascii accented byte", "ascii", []byte("caf\xe9\n\xff\n"), 0, "line 1"},
		{"us-ascii later line", "US-ASCII", []byte("cafe\n\xe9\n"), 1, "line 2"},
		{"utf-8 truncated sequence", "utf8", []byte("ok\n\xce\n"), 1, "line 2"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src, err := Open(writeFile(t, tc.data), tc.encoding)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			t.Cleanup(func() {
				_ = src.Close()
			})
			words := collect(t, src)
			if len(words) != tc.words {
				t.Fatalf("expected %d words before the error, got %q", tc.words, words)
			}
			if !errors.Is(src.Err(), ErrEncodingMismatch) {
				t.Fatalf("expected ErrEncodingMismatch, got %v", src.Err())
			}
			if !strings.Contains(src.Err().Error(), tc.line) {
				t.Fatalf("expected %s in error: %v", tc.line, src.Err())
			}
		})
	}
}

func TestOpenLatin1KeepsC1Controls(t *testing.T) {
	src, err := Open(writeFile(t, []byte{'a', 0x80, '\n', 0xe9, '\n'}), "latin-1")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		_ = src.Close()
	})
	words := collect(t, src)
	if err := src.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(words) != 2 || words[0] != "a\u0080" || words[1] != "é" {
		t.Fatalf("unexpected words: %q", words)
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.txt"), "utf-8")
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLookupEncoding(t *testing.T) {
	for _, name := range []string{"iso-8859-7", "UTF-8", "utf8", "windows-1253", "ISO_8859-7:1987", "greek"} {
		if _, err := LookupEncoding(name); err != nil {
			t.Errorf("LookupEncoding(%q): %v", name, err)
		}
	}
	for name, want := range map[string]encoding.Encoding{
		"ascii":      usASCII,
		"us-ascii":   usASCII,
		"iso-8859-1": charmap.ISO8859_1,
		"latin1":     charmap.ISO8859_1,
		"latin-1":    charmap.ISO8859_1,
	} {
		got, err := LookupEncoding(name)
		if err != nil {
			t.Errorf("LookupEncoding(%q): %v", name, err)
			continue
		}
		if got != want || got == charmap.Windows1252 {
			t.Errorf("LookupEncoding(%q) = %v, want %v", name, got, want)
		}
	}
	for _, name := range []string{"", "no-such-encoding"} {
		if _, err := LookupEncoding(name); !errors.Is(err, ErrUnknownEncoding) {
			t.Errorf("LookupEncoding(%q) = %v, want ErrUnknownEncoding", name, err)
		}
	}
}

func TestLines(t *testing.T) {
	seq, errFn := Lines(strings.NewReader(" α \nβ\n"))
	var words []string
	for w := range seq {
		words = append(words, w)
	}
	if err := errFn(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(words) != 2 || words[0] != "α" || words[1] != "β" {
		t.Fatalf("unexpected words: %q", words)
	}
}
