package wordlist

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
)

// DefaultEncoding is the encoding assumed for word lists.
const DefaultEncoding = "iso-8859-7"

var (
	// ErrUnknownEncoding indicates an encoding name with no decoder.
	ErrUnknownEncoding = errors.New("wordlist: unknown encoding")

	// ErrEncodingMismatch indicates input that cannot be decoded with the chosen encoding.
	ErrEncodingMismatch = errors.New("wordlist: input does not match encoding")
)

// shortNames maps common short spellings onto IANA names. Without them
// "ascii" would fall through to the WHATWG index, which reads it as
// windows-1252.
var shortNames = map[string]string{
	"ascii":   "us-ascii",
	"latin-1": "iso-8859-1",
}

// LookupEncoding resolves an encoding by its IANA name, falling back to
// WHATWG labels for names IANA does not register.
func LookupEncoding(name string) (encoding.Encoding, error) {
	label := strings.TrimSpace(strings.ToLower(name))
	if label == "" {
		return nil, fmt.Errorf("%w: empty name", ErrUnknownEncoding)
	}
	if alias, ok := shortNames[label]; ok {
		label = alias
	}
	enc, err := ianaindex.IANA.Encoding(label)
	if err == nil {
		if enc == nil {
			return nil, fmt.Errorf("%w %q: no decoder available", ErrUnknownEncoding, name)
		}
		return enc, nil
	}
	if enc, err := htmlindex.Get(label); err == nil {
		return enc, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownEncoding, name)
}
