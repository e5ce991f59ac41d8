// Package wordlist reads word lists, one word per line, in a chosen encoding.
package wordlist

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// Source is an open word list.
type Source struct {
	path string
	file *os.File
	enc  encoding.Encoding
	err  error
}

// Open opens the word list at path, decoding it with the named encoding.
func Open(path, encodingName string) (*Source, error) {
	enc, err := LookupEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Source{path: path, file: file, enc: enc}, nil
}

// Path returns the path the source was opened from.
func (s *Source) Path() string {
	return s.path
}

// Close closes the underlying file.
func (s *Source) Close() error {
	return s.file.Close()
}

// Err returns the first read or decode error hit by Words.
func (s *Source) Err() error {
	return s.err
}

// Words yields each line with surrounding whitespace stripped. Empty lines
// are yielded as empty words. Iteration stops at the first error, which is
// then available from Err.
func (s *Source) Words() iter.Seq[string] {
	return func(yield func(string) bool) {
		s.err = scanLines(s.file, s.enc, yield)
	}
}

// Lines yields the stripped lines of r, which must already be UTF-8. The
// returned function reports the error that ended iteration, if any.
func Lines(r io.Reader) (iter.Seq[string], func() error) {
	var err error
	seq := func(yield func(string) bool) {
		err = scanLines(r, unicode.UTF8, yield)
	}
	return seq, func() error { return err }
}

func scanLines(r io.Reader, enc encoding.Encoding, yield func(string) bool) error {
	ascii := isASCII(enc)
	validate := enc == unicode.UTF8 || ascii
	if !validate {
		r = enc.NewDecoder().Reader(r)
	}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		switch {
		case ascii:
			if i := strings.IndexFunc(line, func(c rune) bool { return c >= utf8.RuneSelf }); i >= 0 {
				return fmt.Errorf("%w: non-ASCII byte 0x%02x on line %d", ErrEncodingMismatch, line[i], lineNo)
			}
		case validate:
			if !utf8.ValidString(line) {
				return fmt.Errorf("%w: invalid UTF-8 on line %d", ErrEncodingMismatch, lineNo)
			}
		default:
			if strings.ContainsRune(line, utf8.RuneError) {
				return fmt.Errorf("%w: undecodable byte on line %d", ErrEncodingMismatch, lineNo)
			}
		}
		if !yield(strings.TrimSpace(line)) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read word list: %w", err)
	}
	return nil
}

var usASCII, _ = ianaindex.IANA.Encoding("us-ascii")

func isASCII(enc encoding.Encoding) bool {
	return usASCII != nil && enc == usASCII
}
